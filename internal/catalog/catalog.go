// Package catalog holds the ordered list of services the site offers and
// resolves free-form submissions to canonical display titles.
package catalog

import "strings"

// Service is one offered service: a stable identifier plus display title.
type Service struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Catalog resolves a submitted service string to a catalog entry.
type Catalog interface {
	Services() []Service
	Resolve(input string) (Service, bool)
}

// Default is the built-in catalog of offered services, in display order.
// The content database may override it; this list is the fallback.
var Default = NewStatic([]Service{
	{ID: "solar-installation", Title: "Solar Installation"},
	{ID: "inverter-battery-systems", Title: "Inverter & Battery Systems"},
	{ID: "solar-street-lighting", Title: "Solar Street Lighting"},
	{ID: "solar-water-pumping", Title: "Solar Water Pumping"},
	{ID: "maintenance-repairs", Title: "Maintenance & Repairs"},
	{ID: "energy-audit", Title: "Energy Audit"},
})

// Static is an in-memory Catalog over a fixed slice.
type Static struct {
	services []Service
	byID     map[string]Service
	byTitle  map[string]Service
}

// NewStatic builds a Static catalog preserving the given order.
func NewStatic(services []Service) *Static {
	s := &Static{
		services: services,
		byID:     make(map[string]Service, len(services)),
		byTitle:  make(map[string]Service, len(services)),
	}
	for _, svc := range services {
		s.byID[svc.ID] = svc
		s.byTitle[strings.ToLower(svc.Title)] = svc
	}
	return s
}

// Services returns the catalog entries in display order.
func (s *Static) Services() []Service {
	out := make([]Service, len(s.services))
	copy(out, s.services)
	return out
}

// Resolve matches input against service identifiers first, then display
// titles (case-insensitive). The boolean reports whether a match was found;
// callers decide what to do with unmatched input.
func (s *Static) Resolve(input string) (Service, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return Service{}, false
	}
	if svc, ok := s.byID[trimmed]; ok {
		return svc, true
	}
	if svc, ok := s.byTitle[strings.ToLower(trimmed)]; ok {
		return svc, true
	}
	return Service{}, false
}
