// Package usecase contains the lead-intake business operations, kept
// apart from HTTP so they can be exercised directly in tests.
package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/visahub/lead-intake/internal/entity"
	"github.com/visahub/lead-intake/internal/infra/queue"
)

type SubmitLeadInput struct {
	FirstName       string
	LastName        string
	Email           string
	LinkedIn        string
	InterestedVisas []entity.VisaType
	ResumeFilename  string // empty when no file was attached
	AdditionalInfo  string
	Country         string
}

type SubmitLeadUseCase struct {
	Store entity.LeadStoreInterface
	Queue QueueProducerInterface // nil when the broker is not configured
	// Resume files are not stored; links are derived from this base URL.
	StorageBaseURL string
	Logger         *zap.Logger
}

func NewSubmitLeadUseCase(store entity.LeadStoreInterface, producer QueueProducerInterface, storageBaseURL string, logger *zap.Logger) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Store:          store,
		Queue:          producer,
		StorageBaseURL: storageBaseURL,
		Logger:         logger,
	}
}

// Execute validates the submission, appends the new lead to the store and
// publishes a lead.created event. A publish failure is logged and
// swallowed; the submission itself has already succeeded.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*entity.Lead, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	info := input.AdditionalInfo
	if input.Country != "" {
		info = info + "\ncountry: " + input.Country
	}

	lead := &entity.Lead{
		ID:              uuid.NewString(),
		FirstName:       input.FirstName,
		LastName:        input.LastName,
		Email:           input.Email,
		LinkedIn:        input.LinkedIn,
		InterestedVisas: input.InterestedVisas,
		ResumeURL:       uc.resumeURL(input),
		AdditionalInfo:  info,
		Status:          entity.StatusPending,
		CreatedAt:       time.Now().UTC().Format(time.RFC3339),
	}

	if err := uc.Store.Append(ctx, lead); err != nil {
		return nil, &TechnicalError{Code: CodeUnexpected, Message: "failed to save lead"}
	}

	if uc.Queue != nil {
		payload := queue.LeadCreatedPayload{
			LeadID:    lead.ID,
			FirstName: lead.FirstName,
			LastName:  lead.LastName,
			Email:     lead.Email,
			LinkedIn:  lead.LinkedIn,
			Visas:     visaStrings(lead.InterestedVisas),
			CreatedAt: lead.CreatedAt,
		}
		if err := uc.Queue.PublishLeadCreated(ctx, payload); err != nil {
			uc.Logger.Warn("failed to publish lead.created", zap.String("lead_id", lead.ID), zap.Error(err))
		}
	}

	return lead, nil
}

func (uc *SubmitLeadUseCase) resumeURL(input SubmitLeadInput) string {
	if input.ResumeFilename == "" {
		return ""
	}
	return fmt.Sprintf("%s/resumes/%s-%s-resume.pdf",
		uc.StorageBaseURL,
		strings.ToLower(input.FirstName),
		strings.ToLower(input.LastName),
	)
}

func validate(input SubmitLeadInput) error {
	missing := func(field string) error {
		return &DomainError{Code: CodeValidationError, Message: "missing required field: " + field}
	}
	switch {
	case input.FirstName == "":
		return missing("firstName")
	case input.LastName == "":
		return missing("lastName")
	case input.Email == "":
		return missing("email")
	case input.LinkedIn == "":
		return missing("linkedin")
	case len(input.InterestedVisas) == 0:
		return missing("interestedVisas")
	}
	for _, v := range input.InterestedVisas {
		if !v.Valid() {
			return &DomainError{Code: CodeValidationError, Message: "unknown visa category: " + string(v)}
		}
	}
	return nil
}

func visaStrings(visas []entity.VisaType) []string {
	out := make([]string, len(visas))
	for i, v := range visas {
		out[i] = string(v)
	}
	return out
}
