package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lead-funnel/internal/entity"
	"github.com/xavierca1/lead-funnel/internal/usecase"
)

func TestSyncWithoutRelay(t *testing.T) {
	repo := new(MockLeadRepository)

	_, err := usecase.NewSyncToSheetsUseCase(repo, nil, nil, quietLogger()).Execute(context.Background())
	assert.ErrorIs(t, err, usecase.ErrRelayUnavailable)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestSyncIsolatesFailures(t *testing.T) {
	repo := new(MockLeadRepository)
	relay := new(MockSheetRelay)

	a, b, c := leadAt("lead_a", fixedNow), leadAt("lead_b", fixedNow), leadAt("lead_c", fixedNow)
	repo.On("List", mock.Anything).Return([]*entity.Lead{a, b, c}, nil)
	relay.On("AddLeadToSheet", mock.Anything, a).Return(nil)
	relay.On("AddLeadToSheet", mock.Anything, b).Return(errors.New("quota exceeded"))
	relay.On("AddLeadToSheet", mock.Anything, c).Return(nil)

	out, err := usecase.NewSyncToSheetsUseCase(repo, relay, nil, quietLogger()).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, out.Synced)
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, []string{"Failed to sync lead lead_b: quota exceeded"}, out.Errors)
	relay.AssertNumberOfCalls(t, "AddLeadToSheet", 3)
}

func TestSyncEmpty(t *testing.T) {
	repo := new(MockLeadRepository)
	relay := new(MockSheetRelay)
	repo.On("List", mock.Anything).Return([]*entity.Lead{}, nil)

	out, err := usecase.NewSyncToSheetsUseCase(repo, relay, nil, quietLogger()).Execute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, out.Total)
	assert.Nil(t, out.Errors)
}

func TestSyncListFailure(t *testing.T) {
	repo := new(MockLeadRepository)
	repo.On("List", mock.Anything).Return(nil, errors.New("scan failed"))

	_, err := usecase.NewSyncToSheetsUseCase(repo, new(MockSheetRelay), nil, quietLogger()).Execute(context.Background())
	assert.True(t, usecase.IsPersistenceError(err))
}
