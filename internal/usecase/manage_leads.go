package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xavierca1/lead-funnel/internal/entity"
)

// LeadService agrupa as operações administrativas sobre leads já capturados.
type LeadService struct {
	Repo LeadRepositoryInterface
	Log  logrus.FieldLogger
	Now  func() time.Time
}

func NewLeadService(repo LeadRepositoryInterface, log logrus.FieldLogger) *LeadService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LeadService{Repo: repo, Log: log, Now: time.Now}
}

// List devolve os leads do mais novo para o mais antigo.
func (s *LeadService) List(ctx context.Context) ([]*entity.Lead, error) {
	leads, err := s.Repo.List(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "list leads", Err: err}
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].SubmittedAt.After(leads[j].SubmittedAt)
	})
	return leads, nil
}

func (s *LeadService) Get(ctx context.Context, id string) (*entity.Lead, error) {
	lead, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, &NotFoundError{ID: id}
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get lead", Err: err}
	}
	return lead, nil
}

// UpdateStatus valida o status antes de tocar no store.
func (s *LeadService) UpdateStatus(ctx context.Context, id string, status string) (*entity.Lead, error) {
	st := entity.LeadStatus(status)
	if !st.Valid() {
		return nil, &ValidationError{Message: invalidStatusMessage()}
	}

	lead, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := lead.ChangeStatus(st, s.Now()); err != nil {
		return nil, &ValidationError{Message: invalidStatusMessage()}
	}
	if err := s.Repo.Save(ctx, lead); err != nil {
		return nil, &PersistenceError{Op: "update lead status", Err: err}
	}

	s.Log.WithFields(logrus.Fields{"lead_id": id, "status": status}).Info("🔄 Status do lead atualizado")
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, id); err != nil {
		return &PersistenceError{Op: "delete lead", Err: err}
	}

	s.Log.WithField("lead_id", id).Info("🗑️ Lead removido")
	return nil
}

func invalidStatusMessage() string {
	names := make([]string, 0, len(entity.LeadStatuses))
	for _, st := range entity.LeadStatuses {
		names = append(names, string(st))
	}
	return "Invalid status. Must be one of: " + strings.Join(names, ", ")
}
