package leads

import "time"

// LeadSubmission is the client-constructed payload for a contact/quote
// form. The honeypot field is a hidden input real visitors never fill;
// content there marks an automated submitter.
type LeadSubmission struct {
	Name                 string `json:"name"`
	Phone                string `json:"phone"`
	Email                string `json:"email,omitempty"`
	Service              string `json:"service"`
	Location             string `json:"location"`
	Message              string `json:"message"`
	SourcePage           string `json:"source_page"`
	PreferredContactTime string `json:"preferred_contact_time,omitempty"`
	Honeypot             string `json:"honeypot"`
}

// Lead is the persisted record: submission fields minus the honeypot, plus
// a server-assigned identifier and creation timestamp. The intake pipeline
// creates each lead exactly once and never mutates or deletes it.
type Lead struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Phone                string    `json:"phone"`
	Email                string    `json:"email,omitempty"`
	Service              string    `json:"service"`
	Location             string    `json:"location"`
	Message              string    `json:"message"`
	SourcePage           string    `json:"source_page"`
	PreferredContactTime string    `json:"preferred_contact_time,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
}

// NewLead carries the accepted fields into the store.
type NewLead struct {
	Name                 string
	Phone                string
	Email                string
	Service              string
	Location             string
	Message              string
	SourcePage           string
	PreferredContactTime string
}

// NewLeadFromSubmission strips the honeypot from a validated submission.
func NewLeadFromSubmission(sub LeadSubmission) *NewLead {
	return &NewLead{
		Name:                 sub.Name,
		Phone:                sub.Phone,
		Email:                sub.Email,
		Service:              sub.Service,
		Location:             sub.Location,
		Message:              sub.Message,
		SourcePage:           sub.SourcePage,
		PreferredContactTime: sub.PreferredContactTime,
	}
}

// SubmitResponse is the wire response of the intake endpoint. Business
// failures are reported with success:false over HTTP 200; transport-level
// status codes are reserved for infrastructure problems.
type SubmitResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
