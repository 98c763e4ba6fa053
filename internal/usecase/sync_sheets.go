package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

type SyncToSheetsUseCase struct {
	Repo     LeadRepositoryInterface
	Relay    SheetRelay
	Recorder RelayRecorder
	Log      logrus.FieldLogger
}

func NewSyncToSheetsUseCase(repo LeadRepositoryInterface, relay SheetRelay, recorder RelayRecorder, log logrus.FieldLogger) *SyncToSheetsUseCase {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SyncToSheetsUseCase{Repo: repo, Relay: relay, Recorder: recorder, Log: log}
}

// Execute reenvia todos os leads. Falha de um lead não aborta o lote.
func (uc *SyncToSheetsUseCase) Execute(ctx context.Context) (*SyncOutput, error) {
	if uc.Relay == nil {
		return nil, ErrRelayUnavailable
	}

	leads, err := uc.Repo.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list leads", Err: err}
	}

	out := &SyncOutput{Total: len(leads)}
	for _, lead := range leads {
		if err := uc.Relay.AddLeadToSheet(ctx, lead); err != nil {
			uc.Recorder.RecordRelay("failed")
			out.Errors = append(out.Errors, fmt.Sprintf("Failed to sync lead %s: %v", lead.ID, err))
			continue
		}
		uc.Recorder.RecordRelay("success")
		out.Synced++
	}

	uc.Log.WithFields(logrus.Fields{"synced": out.Synced, "total": out.Total}).Info("📊 Sincronização com Google Sheets concluída")
	return out, nil
}
