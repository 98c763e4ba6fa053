package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/lead-funnel/internal/entity"
	"github.com/xavierca1/lead-funnel/internal/infra/logging"
	"github.com/xavierca1/lead-funnel/internal/infra/queue"
)

const (
	MsgSubmittedWithSheets = "Lead submitted successfully and added to Google Sheets"
	MsgSubmittedDBOnly     = "Lead submitted successfully to database"
)

type SubmitLeadUseCase struct {
	Repo      LeadRepositoryInterface
	Relay     SheetRelay     // nil quando o Sheets não está configurado
	Publisher EventPublisher // nil quando não há RabbitMQ
	Recorder  RelayRecorder
	Log       logrus.FieldLogger
	Now       func() time.Time
}

func NewSubmitLeadUseCase(
	repo LeadRepositoryInterface,
	relay SheetRelay,
	publisher EventPublisher,
	recorder RelayRecorder,
	log logrus.FieldLogger,
) *SubmitLeadUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SubmitLeadUseCase{
		Repo:      repo,
		Relay:     relay,
		Publisher: publisher,
		Recorder:  recorder,
		Log:       log,
		Now:       time.Now,
	}
}

// Execute: validar -> persistir -> relay (best-effort) -> responder.
// Depois de persistido o lead nunca é desfeito, mesmo se o relay falhar.
func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput) (*SubmitLeadOutput, error) {
	if err := ValidateSubmission(input); err != nil {
		return nil, err
	}

	lead := entity.NewLead(input.Name, input.Email, input.Phone, input.Company, input.Message, uc.Now())
	log := uc.Log.WithFields(logrus.Fields{"lead_id": lead.ID, "email": lead.Email})

	if err := uc.Repo.Save(ctx, lead); err != nil {
		logging.CaptureError("lead_persistence", err, map[string]interface{}{"lead_id": lead.ID})
		return nil, &PersistenceError{Op: "save lead", Err: err}
	}
	uc.Recorder.RecordLeadSubmitted()
	logging.LogEvent(uc.Log, "lead_captured", map[string]interface{}{"lead_id": lead.ID})

	addedToSheets := uc.relay(ctx, lead, log)
	uc.publish(ctx, lead, addedToSheets, log)

	msg := MsgSubmittedDBOnly
	if addedToSheets {
		msg = MsgSubmittedWithSheets
		log.Info("✅ Lead salvo no banco e no Google Sheets")
	}

	return &SubmitLeadOutput{
		LeadID:        lead.ID,
		AddedToSheets: addedToSheets,
		Message:       msg,
	}, nil
}

// relay devolve o resultado em vez de disparar em goroutine: o chamador precisa do flag.
func (uc *SubmitLeadUseCase) relay(ctx context.Context, lead *entity.Lead, log logrus.FieldLogger) bool {
	if uc.Relay == nil {
		log.Info("📥 Lead salvo apenas no banco (Sheets não configurado)")
		uc.Recorder.RecordRelay("skipped")
		return false
	}

	if err := uc.Relay.AddLeadToSheet(ctx, lead); err != nil {
		log.WithError(err).Warn("⚠️ Lead salvo no banco, mas falhou no Google Sheets")
		logging.CaptureError("sheets_relay", err, map[string]interface{}{"lead_id": lead.ID})
		uc.Recorder.RecordRelay("failed")
		return false
	}

	uc.Recorder.RecordRelay("success")
	return true
}

func (uc *SubmitLeadUseCase) publish(ctx context.Context, lead *entity.Lead, addedToSheets bool, log logrus.FieldLogger) {
	if uc.Publisher == nil {
		return
	}

	payload := queue.LeadCapturedPayload{
		LeadID:        lead.ID,
		Name:          lead.Name,
		Email:         lead.Email,
		Phone:         lead.Phone,
		Company:       lead.Company,
		Message:       lead.Message,
		SubmittedAt:   lead.SubmittedAt,
		AddedToSheets: addedToSheets,
	}
	if err := uc.Publisher.PublishLeadCaptured(ctx, payload); err != nil {
		log.WithError(err).Warn("⚠️ Falha ao publicar evento de lead na fila")
	}
}
