package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/core/access"
	"storefront/internal/modkit/repokit"
	perr "storefront/internal/platform/errors"
	"storefront/internal/platform/store"
	"storefront/internal/services/principal/cache"
	"storefront/internal/services/principal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct{ store.RowQuerier }

func (f fakeTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error { return fn(f) }

type fakeRepo struct {
	rows    map[string]*access.Principal
	err     error
	gets    int
	upserts []domain.Subscription
	// upsertErrs are returned by successive Upsert calls before succeeding
	upsertErrs []error
}

func (r *fakeRepo) Get(_ context.Context, sub string) (*access.Principal, error) {
	r.gets++
	if r.err != nil {
		return nil, r.err
	}
	return r.rows[sub], nil
}

func (r *fakeRepo) SubjectByCustomer(_ context.Context, cus string) (string, bool, error) {
	for sub := range r.rows {
		if "cus_"+sub == cus {
			return sub, true, nil
		}
	}
	return "", false, nil
}

func (r *fakeRepo) Upsert(_ context.Context, s domain.Subscription) error {
	if len(r.upsertErrs) > 0 {
		err := r.upsertErrs[0]
		r.upsertErrs = r.upsertErrs[1:]
		return err
	}
	r.upserts = append(r.upserts, s)
	r.rows[s.SubjectID] = &access.Principal{SubjectID: s.SubjectID, Tier: s.Tier, Status: s.Status, Role: access.RoleUser}
	return nil
}

func newSvc(repo *fakeRepo, caches ...domain.Cache) *Svc {
	return New(fakeTx{}, repokit.BindFunc[domain.Repo](func(repokit.Queryer) domain.Repo { return repo }), caches...)
}

func active(sub string, t access.Tier) *access.Principal {
	return &access.Principal{SubjectID: sub, Tier: t, Status: access.StatusActive, Role: access.RoleUser}
}

func TestLookup_CachesHitsAndMisses(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &fakeRepo{rows: map[string]*access.Principal{"u1": active("u1", access.TierGrowth)}}
	svc := newSvc(repo, cache.NewLRU(10, time.Minute))

	for range 3 {
		p, err := svc.Lookup(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, access.TierGrowth, p.Tier)
	}
	assert.Equal(t, 1, repo.gets)

	for range 2 {
		p, err := svc.Lookup(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 2, repo.gets, "unknown subjects are cached too")
}

func TestLookup_PartialRecordIsAnonymous(t *testing.T) {
	t.Parallel()
	repo := &fakeRepo{rows: map[string]*access.Principal{"u1": {SubjectID: "u1", Tier: access.TierLite}}}
	p, err := newSvc(repo).Lookup(context.Background(), "u1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestLookup_RepoError(t *testing.T) {
	t.Parallel()
	boom := errors.New("pg down")
	c := cache.NewLRU(10, time.Minute)
	_, err := newSvc(&fakeRepo{err: boom}, c).Lookup(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, c.Len(), "errors must not be cached")
}

func TestLookup_LaterCacheRefillsEarlier(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	near, far := cache.NewLRU(10, time.Minute), cache.NewLRU(10, time.Minute)
	far.Set(ctx, "u1", active("u1", access.TierPartner))
	repo := &fakeRepo{rows: map[string]*access.Principal{}}

	p, err := newSvc(repo, near, far).Lookup(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, access.TierPartner, p.Tier)
	assert.Zero(t, repo.gets)

	_, ok := near.Get(ctx, "u1")
	assert.True(t, ok)
}

func TestApply_InvalidatesCaches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := &fakeRepo{rows: map[string]*access.Principal{"u1": active("u1", access.TierLite)}}
	svc := newSvc(repo, cache.NewLRU(10, time.Minute))

	p, _ := svc.Lookup(ctx, "u1")
	require.Equal(t, access.TierLite, p.Tier)

	require.NoError(t, svc.Apply(ctx, domain.Subscription{SubjectID: "u1", Tier: access.TierPartner, Status: access.StatusActive}))
	p, _ = svc.Lookup(ctx, "u1")
	assert.Equal(t, access.TierPartner, p.Tier)
	assert.Len(t, repo.upserts, 1)

	sub, ok, err := svc.SubjectByCustomer(ctx, "cus_u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "u1", sub)
}

func TestApply_RetriesContention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	lock := perr.FromPostgres(&pgconn.PgError{Code: "55P03", Message: "lock timeout"}, "upsert subscription")
	repo := &fakeRepo{rows: map[string]*access.Principal{}, upsertErrs: []error{lock, lock}}
	svc := newSvc(repo)

	require.NoError(t, svc.Apply(ctx, domain.Subscription{SubjectID: "u2", Tier: access.TierGrowth, Status: access.StatusActive}))
	assert.Len(t, repo.upserts, 1)
	assert.Empty(t, repo.upsertErrs)
}

func TestApply_GivesUpOnPersistentContention(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dl := perr.FromPostgres(&pgconn.PgError{Code: "40P01", Message: "deadlock detected"}, "upsert subscription")
	repo := &fakeRepo{rows: map[string]*access.Principal{}, upsertErrs: []error{dl, dl, dl, dl}}
	svc := newSvc(repo)

	err := svc.Apply(ctx, domain.Subscription{SubjectID: "u3", Tier: access.TierLite, Status: access.StatusActive})
	require.Error(t, err)
	assert.True(t, perr.IsCode(err, perr.ErrorCodeUnavailable))
	assert.Len(t, repo.upsertErrs, 1)
	assert.Empty(t, repo.upserts)
}

func TestApply_DoesNotRetryPermanentErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	bad := perr.FromPostgres(&pgconn.PgError{Code: "23514", Message: "check violation"}, "upsert subscription")
	repo := &fakeRepo{rows: map[string]*access.Principal{}, upsertErrs: []error{bad, bad}}
	svc := newSvc(repo)

	err := svc.Apply(ctx, domain.Subscription{SubjectID: "u4", Tier: access.TierLite, Status: access.StatusActive})
	assert.True(t, perr.IsCode(err, perr.ErrorCodeValidation))
	assert.Len(t, repo.upsertErrs, 1)
}

func TestNew_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { New(nil, nil) })
	assert.Panics(t, func() { New(fakeTx{}, nil) })
}
