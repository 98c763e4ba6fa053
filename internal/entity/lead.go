package entity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LeadKeyPrefix é o prefixo de todas as chaves de lead no KV store.
const LeadKeyPrefix = "lead_"

var (
	ErrLeadNotFound  = errors.New("lead not found")
	ErrInvalidStatus = errors.New("invalid lead status")
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusClosed    LeadStatus = "closed"
)

// LeadStatuses na ordem do funil.
var LeadStatuses = []LeadStatus{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusQualified,
	LeadStatusConverted,
	LeadStatusClosed,
}

func (s LeadStatus) Valid() bool {
	for _, st := range LeadStatuses {
		if s == st {
			return true
		}
	}
	return false
}

type Lead struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Company     string     `json:"company"`
	Message     string     `json:"message,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	Status      LeadStatus `json:"status"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// NewLead normaliza os campos e gera o ID. Validação fica no usecase.
func NewLead(name, email, phone, company, message string, now time.Time) *Lead {
	return &Lead{
		ID:          NewLeadID(now),
		Name:        strings.TrimSpace(name),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		Phone:       strings.TrimSpace(phone),
		Company:     strings.TrimSpace(company),
		Message:     message,
		SubmittedAt: now.UTC(),
		Status:      LeadStatusNew,
	}
}

// NewLeadID: lead_<unix millis>_<12 hex de um UUID v4>.
func NewLeadID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	return fmt.Sprintf("%s%d_%s", LeadKeyPrefix, now.UnixMilli(), suffix)
}

// ChangeStatus is the only mutation a persisted lead accepts.
func (l *Lead) ChangeStatus(status LeadStatus, now time.Time) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	l.Status = status
	updated := now.UTC()
	l.UpdatedAt = &updated
	return nil
}

type LeadRepositoryInterface interface {
	Save(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	List(ctx context.Context) ([]*Lead, error)
	Delete(ctx context.Context, id string) error
}
