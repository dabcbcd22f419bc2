//go:build integration_pg

package repo

import (
	"context"
	"os"
	"testing"

	"storefront/internal/core/access"
	"storefront/internal/platform/store"
	"storefront/internal/platform/testkit/pgtest"
	"storefront/internal/services/principal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPG_Integration(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{PG: store.PGConfig{Enabled: true, URL: pgtest.Start(t)}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close(ctx) })

	ddl, err := os.ReadFile("../../../../migrations/0001_storefront.sql")
	require.NoError(t, err)
	_, err = st.PG.Exec(ctx, string(ddl))
	require.NoError(t, err)

	r := NewPG().Bind(st.PG)
	sub := uuid.NewString()

	p, err := r.Get(ctx, sub)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = r.Get(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, r.Upsert(ctx, domain.Subscription{SubjectID: sub, Tier: access.TierGrowth, Status: access.StatusActive, CustomerID: "cus_1"}))
	p, err = r.Get(ctx, sub)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, access.Principal{SubjectID: sub, Tier: access.TierGrowth, Status: access.StatusActive, Role: access.RoleUser}, *p)

	// second write keeps the customer mapping
	require.NoError(t, r.Upsert(ctx, domain.Subscription{SubjectID: sub, Tier: access.TierPartner, Status: access.StatusSuspended}))
	got, ok, err := r.SubjectByCustomer(ctx, "cus_1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, sub, got)

	// a granted role survives billing writes that carry none
	require.NoError(t, r.Upsert(ctx, domain.Subscription{SubjectID: sub, Tier: access.TierPartner, Status: access.StatusActive, Role: access.RoleAdmin}))
	require.NoError(t, r.Upsert(ctx, domain.Subscription{SubjectID: sub, Tier: access.TierGrowth, Status: access.StatusActive}))
	p, err = r.Get(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, access.RoleAdmin, p.Role)
	assert.Equal(t, access.TierGrowth, p.Tier)

	// a row without tier reads as unresolved
	partial := uuid.NewString()
	_, err = st.PG.Exec(ctx, `insert into subscriptions (subject_id) values ($1)`, partial)
	require.NoError(t, err)
	p, err = r.Get(ctx, partial)
	require.NoError(t, err)
	assert.False(t, p.Resolved())

	err = r.Upsert(ctx, domain.Subscription{SubjectID: "nope", Tier: access.TierLite, Status: access.StatusActive})
	assert.Error(t, err)
}
