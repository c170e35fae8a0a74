package leads

import (
	"regexp"
	"strings"

	"github.com/gridlight-solar/site-api/internal/catalog"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Normalize trims every free-text field and resolves the service against
// the catalog. A submitted service matching a catalog identifier or title
// is canonicalized to the display title; anything else passes through as
// free text, since the catalog is a leniency aid, not a gate. The honeypot
// is carried through untouched for the bot check downstream.
//
// Normalize is pure and idempotent: normalizing an already-normalized
// submission yields the same submission.
func Normalize(sub LeadSubmission, cat catalog.Catalog) LeadSubmission {
	out := LeadSubmission{
		Name:                 strings.TrimSpace(sub.Name),
		Phone:                strings.TrimSpace(sub.Phone),
		Email:                strings.TrimSpace(sub.Email),
		Service:              strings.TrimSpace(sub.Service),
		Location:             strings.TrimSpace(sub.Location),
		Message:              strings.TrimSpace(sub.Message),
		SourcePage:           strings.TrimSpace(sub.SourcePage),
		PreferredContactTime: strings.TrimSpace(sub.PreferredContactTime),
		Honeypot:             sub.Honeypot,
	}
	if cat != nil {
		if svc, ok := cat.Resolve(out.Service); ok {
			out.Service = svc.Title
		}
	}
	return out
}

// Validate checks an already-normalized submission and returns one
// FieldError per failing field. An empty slice means the submission is
// acceptable.
func Validate(sub LeadSubmission) []FieldError {
	var problems []FieldError

	if sub.Name == "" {
		problems = append(problems, FieldError{Field: "name", Message: "Please tell us your name."})
	}
	if sub.Phone == "" {
		problems = append(problems, FieldError{Field: "phone", Message: "A phone number is required so we can reach you."})
	}
	if sub.Email != "" && !emailPattern.MatchString(sub.Email) {
		problems = append(problems, FieldError{Field: "email", Message: "That email address does not look right."})
	}
	if sub.Location == "" {
		problems = append(problems, FieldError{Field: "location", Message: "Please tell us where you are located."})
	}
	if sub.Message == "" {
		problems = append(problems, FieldError{Field: "message", Message: "Please describe what you need."})
	}

	return problems
}
