package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// SheetBootstrapper é o subconjunto do relay usado na inicialização.
type SheetBootstrapper interface {
	VerifySheetAccess(ctx context.Context) bool
	SetupSheetHeaders(ctx context.Context) error
}

// SheetsBootstrapWorker verifica o acesso à planilha e garante o cabeçalho.
// Tenta no start e depois a cada tick, até conseguir ou o ctx acabar.
type SheetsBootstrapWorker struct {
	relay        SheetBootstrapper
	tickInterval time.Duration
	log          logrus.FieldLogger
}

func NewSheetsBootstrapWorker(relay SheetBootstrapper, log logrus.FieldLogger) *SheetsBootstrapWorker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SheetsBootstrapWorker{
		relay:        relay,
		tickInterval: 1 * time.Minute, // Tenta de novo a cada 1 min
		log:          log,
	}
}

func (w *SheetsBootstrapWorker) WithInterval(d time.Duration) *SheetsBootstrapWorker {
	w.tickInterval = d
	return w
}

// Start bloqueia; devolve true se a planilha ficou pronta.
func (w *SheetsBootstrapWorker) Start(ctx context.Context) bool {
	w.log.Info("🕒 Sheets Bootstrap Worker iniciado")

	if w.bootstrap(ctx) {
		return true
	}

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Warn("⚠️ Sheets Bootstrap Worker encerrado sem concluir")
			return false
		case <-ticker.C:
			if w.bootstrap(ctx) {
				return true
			}
		}
	}
}

func (w *SheetsBootstrapWorker) bootstrap(ctx context.Context) bool {
	if !w.relay.VerifySheetAccess(ctx) {
		w.log.Warn("⚠️ Google Sheets access verification failed")
		return false
	}
	w.log.Info("Google Sheets integration is ready")

	if err := w.relay.SetupSheetHeaders(ctx); err != nil {
		w.log.WithError(err).Warn("⚠️ Could not set up Google Sheets headers")
		return false
	}

	w.log.Info("✅ Planilha pronta (acesso + cabeçalho)")
	return true
}
