package usecase

import (
	"context"

	"github.com/xavierca1/lead-funnel/internal/entity"
	"github.com/xavierca1/lead-funnel/internal/infra/queue"
)

type LeadRepositoryInterface = entity.LeadRepositoryInterface

// SheetRelay é o destino best-effort das submissões (Google Sheets).
type SheetRelay interface {
	AddLeadToSheet(ctx context.Context, lead *entity.Lead) error
	SetupSheetHeaders(ctx context.Context) error
	VerifySheetAccess(ctx context.Context) bool
	SpreadsheetID() string
}

type EventPublisher interface {
	PublishLeadCaptured(ctx context.Context, payload queue.LeadCapturedPayload) error
}

// RelayRecorder recebe o resultado de cada tentativa de relay (métricas).
type RelayRecorder interface {
	RecordLeadSubmitted()
	RecordRelay(result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordLeadSubmitted() {}
func (nopRecorder) RecordRelay(string)   {}
