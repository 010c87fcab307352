package repository

import (
	"context"
	"testing"
	"time"

	"github.com/looply/looply-backend/pkg/errors"
	"github.com/looply/looply-backend/pkg/kvstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompanyRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewCompanyRepository(kvstore.NewMemoryStore())

	_, err := repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	c := &Company{ID: "c1", Name: "Acme Inc", Timezone: "America/New_York", OwnerID: "u1"}
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Inc", got.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCompany_Today(t *testing.T) {
	// 03:00 UTC on the 16th is still the 15th in New York
	now := time.Date(2024, 1, 16, 3, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-01-15", (&Company{Timezone: "America/New_York"}).Today(now))
	assert.Equal(t, "2024-01-16", (&Company{Timezone: "Not/AZone"}).Today(now))
}

func TestEmployeeRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewEmployeeRepository(kvstore.NewMemoryStore())

	for _, e := range []*Employee{
		{ID: "e1", Name: "Sarah Johnson", CompanyID: "c1", AccessCode: "AAAA1111", IsActive: true},
		{ID: "e2", Name: "Emily Rodriguez", CompanyID: "c1", AccessCode: "BBBB2222", IsActive: false},
		{ID: "e3", Name: "Other Co", CompanyID: "c2", AccessCode: "CCCC3333", IsActive: true},
	} {
		require.NoError(t, repo.Save(ctx, e))
	}

	list, err := repo.ListByCompany(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Emily Rodriguez", list[0].Name)

	active, err := repo.CountActive(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, active)

	found, err := repo.FindByAccessCode(ctx, "CCCC3333")
	require.NoError(t, err)
	assert.Equal(t, "e3", found.ID)

	_, err = repo.FindByAccessCode(ctx, "nope")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	require.NoError(t, repo.Delete(ctx, "e1"))
	_, err = repo.GetByID(ctx, "e1")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}
