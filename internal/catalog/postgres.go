package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gridlight-solar/site-api/pkg/logging"
)

// PostgresCatalog reads the service list from the content database. The
// intake pipeline only ever reads it; the list is managed elsewhere.
type PostgresCatalog struct {
	pool   *pgxpool.Pool
	logger *logging.Logger

	mu     sync.RWMutex
	cached *Static
}

// NewPostgresCatalog creates a catalog backed by the content database,
// seeded with the built-in list until the first successful refresh.
func NewPostgresCatalog(pool *pgxpool.Pool, logger *logging.Logger) *PostgresCatalog {
	if pool == nil {
		panic("catalog: pgx pool required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PostgresCatalog{pool: pool, logger: logger, cached: Default}
}

// Refresh reloads the service list. On failure the previous snapshot stays
// in place so lookups keep working.
func (c *PostgresCatalog) Refresh(ctx context.Context) error {
	query := `
		SELECT id, title
		FROM services
		ORDER BY position ASC
	`
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return fmt.Errorf("catalog: query services: %w", err)
	}
	defer rows.Close()

	var services []Service
	for rows.Next() {
		var svc Service
		if err := rows.Scan(&svc.ID, &svc.Title); err != nil {
			return fmt.Errorf("catalog: scan service: %w", err)
		}
		services = append(services, svc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("catalog: iterate services: %w", err)
	}
	if len(services) == 0 {
		c.logger.Warn("catalog: services table empty, keeping previous snapshot")
		return nil
	}

	c.mu.Lock()
	c.cached = NewStatic(services)
	c.mu.Unlock()

	c.logger.Info("catalog refreshed", "services", len(services))
	return nil
}

// Services returns the current snapshot in display order.
func (c *PostgresCatalog) Services() []Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cached.Services()
}

// Resolve matches against the current snapshot.
func (c *PostgresCatalog) Resolve(input string) (Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cached.Resolve(input)
}

var _ Catalog = (*PostgresCatalog)(nil)
var _ Catalog = (*Static)(nil)
