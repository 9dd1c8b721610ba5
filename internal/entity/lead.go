package entity

import (
	"context"
	"time"
)

type LeadStatus string

const (
	StatusPending    LeadStatus = "PENDING"
	StatusReachedOut LeadStatus = "REACHED_OUT"
)

func (s LeadStatus) Valid() bool {
	return s == StatusPending || s == StatusReachedOut
}

type VisaType string

const (
	VisaH1B VisaType = "H1B"
	VisaL1  VisaType = "L1"
	VisaO1  VisaType = "O1"
	VisaEB2 VisaType = "EB2"
)

func (v VisaType) Valid() bool {
	switch v {
	case VisaH1B, VisaL1, VisaO1, VisaEB2:
		return true
	}
	return false
}

// Lead is one visa-assistance inquiry submitted through the public form.
// Only Status may change after creation; every other field is immutable.
type Lead struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	LinkedIn        string     `json:"linkedin"`
	InterestedVisas []VisaType `json:"interestedVisas"`
	ResumeURL       string     `json:"resumeUrl,omitempty"`
	AdditionalInfo  string     `json:"additionalInfo"`
	Status          LeadStatus `json:"status"` // PENDING, REACHED_OUT
	CreatedAt       string     `json:"createdAt"`
}

func (l *Lead) CreatedTime() (time.Time, error) {
	return time.Parse(time.RFC3339, l.CreatedAt)
}

type LeadStoreInterface interface {
	Append(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	UpdateStatus(ctx context.Context, id string, status LeadStatus) (*Lead, error)
	List(ctx context.Context) ([]Lead, error)
}
