package handlers

import (
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/lead-funnel/internal/usecase"
)

// SheetsHandler expõe diagnóstico da integração. Relay nil = não configurado.
type SheetsHandler struct {
	Relay usecase.SheetRelay
	Log   logrus.FieldLogger
	Now   func() time.Time
}

func NewSheetsHandler(relay usecase.SheetRelay, log logrus.FieldLogger) *SheetsHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SheetsHandler{Relay: relay, Log: log, Now: time.Now}
}

type TestSheetsResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	SpreadsheetID string `json:"spreadsheetId,omitempty"`
	Status        string `json:"status,omitempty"`
}

type SheetsStatusResponse struct {
	Status        string `json:"status"`
	Message       string `json:"message"`
	SpreadsheetID string `json:"spreadsheetId,omitempty"`
	Timestamp     string `json:"timestamp,omitempty"`
}

// TestSheets (GET /test-sheets) verifica acesso e garante o cabeçalho. Sempre 200.
func (h *SheetsHandler) TestSheets(w http.ResponseWriter, r *http.Request) {
	if h.Relay == nil {
		writeJSON(w, http.StatusOK, TestSheetsResponse{Success: false, Error: MsgSheetsUnavailable})
		return
	}

	fail := func(reason string) {
		h.Log.WithField("reason", reason).Warn("⚠️ Teste de conexão com Google Sheets falhou")
		writeJSON(w, http.StatusOK, TestSheetsResponse{
			Success: false,
			Error:   "Google Sheets connection failed: " + reason,
			Status:  "error",
		})
	}

	if !h.Relay.VerifySheetAccess(r.Context()) {
		fail("Cannot access the Google Sheet. Please check permissions.")
		return
	}
	if err := h.Relay.SetupSheetHeaders(r.Context()); err != nil {
		fail(err.Error())
		return
	}

	writeJSON(w, http.StatusOK, TestSheetsResponse{
		Success:       true,
		Message:       "Google Sheets connection is working correctly",
		SpreadsheetID: h.Relay.SpreadsheetID(),
		Status:        "ready",
	})
}

// SheetsStatus (GET /sheets-status)
func (h *SheetsHandler) SheetsStatus(w http.ResponseWriter, r *http.Request) {
	if h.Relay == nil {
		writeJSON(w, http.StatusOK, SheetsStatusResponse{
			Status:  "unavailable",
			Message: "Google Sheets service not configured",
		})
		return
	}

	resp := SheetsStatusResponse{
		Status:        "error",
		Message:       "Cannot access Google Sheets",
		SpreadsheetID: h.Relay.SpreadsheetID(),
		Timestamp:     h.Now().UTC().Format(time.RFC3339Nano),
	}
	if h.Relay.VerifySheetAccess(r.Context()) {
		resp.Status = "connected"
		resp.Message = "Google Sheets is connected and ready"
	}

	writeJSON(w, http.StatusOK, resp)
}
