package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"github.com/xavierca1/lead-funnel/internal/entity"
	"github.com/xavierca1/lead-funnel/internal/usecase"
)

const (
	MsgSheetsUnavailable = "Google Sheets service not available. Please check your service account configuration."
	MsgInvalidBody       = "Invalid request body"
)

type LeadHandler struct {
	SubmitUC *usecase.SubmitLeadUseCase
	Leads    *usecase.LeadService
	SyncUC   *usecase.SyncToSheetsUseCase
	Log      logrus.FieldLogger
}

func NewLeadHandler(submit *usecase.SubmitLeadUseCase, leads *usecase.LeadService, sync *usecase.SyncToSheetsUseCase, log logrus.FieldLogger) *LeadHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LeadHandler{SubmitUC: submit, Leads: leads, SyncUC: sync, Log: log}
}

type SubmitLeadResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	LeadID        string `json:"leadId"`
	AddedToSheets bool   `json:"addedToSheets"`
}

type ListLeadsResponse struct {
	Success bool           `json:"success"`
	Leads   []*entity.Lead `json:"leads"`
	Count   int            `json:"count"`
}

type LeadResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Lead    *entity.Lead `json:"lead"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type SyncResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Synced  int      `json:"synced"`
	Total   *int     `json:"total,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// SubmitLead (POST /leads) aceita JSON ou formulário URL-encoded.
func (h *LeadHandler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	input, err := decodeSubmission(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	out, err := h.SubmitUC.Execute(r.Context(), input)
	if err != nil {
		var verr *usecase.ValidationError
		if errors.As(err, &verr) {
			writeError(w, http.StatusBadRequest, verr.Message)
			return
		}
		h.Log.WithError(err).Error("❌ Erro ao registrar lead")
		writeError(w, http.StatusInternalServerError, "Failed to submit lead. Please try again.")
		return
	}

	writeJSON(w, http.StatusOK, SubmitLeadResponse{
		Success:       true,
		Message:       out.Message,
		LeadID:        out.LeadID,
		AddedToSheets: out.AddedToSheets,
	})
}

func decodeSubmission(r *http.Request) (usecase.SubmitLeadInput, error) {
	var input usecase.SubmitLeadInput

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return input, err
		}
		input.Name = r.PostFormValue("name")
		input.Email = r.PostFormValue("email")
		input.Phone = r.PostFormValue("phone")
		input.Company = r.PostFormValue("company")
		input.Message = r.PostFormValue("message")
		return input, nil
	default:
		err := json.NewDecoder(r.Body).Decode(&input)
		return input, err
	}
}

// ListLeads (GET /leads)
func (h *LeadHandler) ListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context())
	if err != nil {
		h.Log.WithError(err).Error("❌ Erro ao listar leads")
		writeError(w, http.StatusInternalServerError, "Failed to fetch leads")
		return
	}
	if leads == nil {
		leads = []*entity.Lead{}
	}

	writeJSON(w, http.StatusOK, ListLeadsResponse{Success: true, Leads: leads, Count: len(leads)})
}

// GetLead (GET /leads/{id})
func (h *LeadHandler) GetLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	lead, err := h.Leads.Get(r.Context(), id)
	if err != nil {
		if usecase.IsNotFoundError(err) {
			writeError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.Log.WithError(err).WithField("lead_id", id).Error("❌ Erro ao buscar lead")
		writeError(w, http.StatusInternalServerError, "Failed to fetch lead")
		return
	}

	writeJSON(w, http.StatusOK, LeadResponse{Success: true, Lead: lead})
}

// UpdateLeadStatus (PUT /leads/{id}/status)
func (h *LeadHandler) UpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	lead, err := h.Leads.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		var verr *usecase.ValidationError
		switch {
		case errors.As(err, &verr):
			writeError(w, http.StatusBadRequest, verr.Message)
		case usecase.IsNotFoundError(err):
			writeError(w, http.StatusNotFound, "Lead not found")
		default:
			h.Log.WithError(err).WithField("lead_id", id).Error("❌ Erro ao atualizar status")
			writeError(w, http.StatusInternalServerError, "Failed to update lead status")
		}
		return
	}

	writeJSON(w, http.StatusOK, LeadResponse{
		Success: true,
		Message: "Lead status updated successfully",
		Lead:    lead,
	})
}

// DeleteLead (DELETE /leads/{id})
func (h *LeadHandler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.Leads.Delete(r.Context(), id); err != nil {
		if usecase.IsNotFoundError(err) {
			writeError(w, http.StatusNotFound, "Lead not found")
			return
		}
		h.Log.WithError(err).WithField("lead_id", id).Error("❌ Erro ao remover lead")
		writeError(w, http.StatusInternalServerError, "Failed to delete lead")
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Lead deleted successfully"})
}

// SyncToSheets (POST /sync-to-sheets)
func (h *LeadHandler) SyncToSheets(w http.ResponseWriter, r *http.Request) {
	out, err := h.SyncUC.Execute(r.Context())
	if err != nil {
		if errors.Is(err, usecase.ErrRelayUnavailable) {
			writeError(w, http.StatusServiceUnavailable, MsgSheetsUnavailable)
			return
		}
		h.Log.WithError(err).Error("❌ Erro ao sincronizar leads")
		writeError(w, http.StatusInternalServerError, "Failed to sync leads to Google Sheets")
		return
	}

	if out.Total == 0 {
		writeJSON(w, http.StatusOK, SyncResponse{Success: true, Message: "No leads to sync", Synced: 0})
		return
	}

	total := out.Total
	writeJSON(w, http.StatusOK, SyncResponse{
		Success: true,
		Message: fmt.Sprintf("Successfully synced %d out of %d leads", out.Synced, out.Total),
		Synced:  out.Synced,
		Total:   &total,
		Errors:  out.Errors,
	})
}
