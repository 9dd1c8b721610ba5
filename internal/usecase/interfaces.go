package usecase

import (
	"context"

	"github.com/visahub/lead-intake/internal/infra/queue"
)

type QueueProducerInterface interface {
	PublishLeadCreated(ctx context.Context, payload queue.LeadCreatedPayload) error
}
