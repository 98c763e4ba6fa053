package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xavierca1/lead-funnel/internal/entity"
	"github.com/xavierca1/lead-funnel/internal/infra/database"
	"github.com/xavierca1/lead-funnel/internal/infra/kvstore"
)

func TestLeadRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := database.NewLeadRepository(store)

	lead := entity.NewLead("Ana", "ana@example.com", "5551234567", "", "", time.Now())
	require.NoError(t, repo.Save(ctx, lead))

	found, err := repo.FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, lead.Email, found.Email)
	assert.Equal(t, entity.LeadStatusNew, found.Status)
	assert.True(t, lead.SubmittedAt.Equal(found.SubmittedAt))
}

func TestLeadRepositoryFindMissing(t *testing.T) {
	repo := database.NewLeadRepository(kvstore.NewMemoryStore())

	_, err := repo.FindByID(context.Background(), "lead_nope")
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}

func TestLeadRepositoryListIgnoresOtherKeys(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemoryStore()
	repo := database.NewLeadRepository(store)

	require.NoError(t, repo.Save(ctx, entity.NewLead("A", "a@b.com", "5551234567", "", "", time.Now())))
	require.NoError(t, repo.Save(ctx, entity.NewLead("B", "b@b.com", "5551234567", "", "", time.Now())))
	require.NoError(t, store.Set(ctx, "settings", map[string]string{"k": "v"}))

	leads, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, leads, 2)
}

func TestLeadRepositoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := database.NewLeadRepository(kvstore.NewMemoryStore())

	lead := entity.NewLead("A", "a@b.com", "5551234567", "", "", time.Now())
	require.NoError(t, repo.Save(ctx, lead))
	require.NoError(t, repo.Delete(ctx, lead.ID))
	require.NoError(t, repo.Delete(ctx, lead.ID))

	_, err := repo.FindByID(ctx, lead.ID)
	assert.ErrorIs(t, err, entity.ErrLeadNotFound)
}
