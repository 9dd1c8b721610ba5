package usecase

import (
	"context"

	"github.com/visahub/lead-intake/internal/entity"
)

type UpdateLeadStatusUseCase struct {
	Store entity.LeadStoreInterface
}

func NewUpdateLeadStatusUseCase(store entity.LeadStoreInterface) *UpdateLeadStatusUseCase {
	return &UpdateLeadStatusUseCase{Store: store}
}

// Execute validates the target status and replaces it on the matching
// lead. Membership in the enum is checked; transition direction is not,
// matching the API's observed contract.
func (uc *UpdateLeadStatusUseCase) Execute(ctx context.Context, id string, status entity.LeadStatus) (*entity.Lead, error) {
	if !status.Valid() {
		return nil, &DomainError{Code: CodeInvalidStatus, Message: "invalid status value"}
	}
	return uc.Store.UpdateStatus(ctx, id, status)
}
