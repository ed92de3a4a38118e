package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trek-booking/internal/domain"
	"github.com/pkordes/trek-booking/internal/repo"
)

func TestTrekTypeRepo_CRUD(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewTrekTypeRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, domain.TrekType{Name: "Fort", Description: "Sahyadri forts", Image: "https://img/x.jpg"})
	require.NoError(t, err)

	// The failing insert runs in a savepoint so the outer test tx stays usable.
	err = repo.NewUnitOfWork(tx).Do(ctx, func(s repo.Stores) error {
		_, err := s.Types.Create(ctx, domain.TrekType{Name: "fort"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "names are unique case-insensitively")

	created.Description = "Hill forts"
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Hill forts", updated.Description)

	byIDs, err := r.ListByIDs(ctx, []uuid.UUID{created.ID})
	require.NoError(t, err)
	assert.Len(t, byIDs, 1)

	require.NoError(t, r.Delete(ctx, created.ID))
	assert.ErrorIs(t, r.Delete(ctx, created.ID), domain.ErrNotFound)
}

func TestGuideRepo_ListPaged(t *testing.T) {
	r := repo.NewGuideRepo(newTestTx(t))
	ctx := context.Background()

	for _, name := range []string{"Asha", "Bhim", "Chetan"} {
		_, err := r.Create(ctx, domain.Guide{Name: name, Experience: 3})
		require.NoError(t, err)
	}

	page, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page, 2)
	assert.GreaterOrEqual(t, total, int64(3))

	beyond, total2, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1000, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, total, total2)
}

func TestTestimonialRepo_CRUD(t *testing.T) {
	r := repo.NewTestimonialRepo(newTestTx(t))
	ctx := context.Background()

	created, err := r.Create(ctx, domain.Testimonial{Name: "Riya", Trek: "Rajmachi", Rating: 5, Comment: "Loved it"})
	require.NoError(t, err)

	created.Rating = 4
	updated, err := r.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Rating)

	items, total, err := r.ListPaged(ctx, domain.PaginationParams{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	assert.GreaterOrEqual(t, total, int64(1))

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepo_CRUD(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewUserRepo(tx)
	ctx := context.Background()

	created, err := r.Create(ctx, domain.User{FullName: "Admin", Username: "admin", PasswordHash: "x"})
	require.NoError(t, err)

	sp, err := tx.Begin(ctx)
	require.NoError(t, err)
	_, err = repo.NewUserRepo(sp).Create(ctx, domain.User{FullName: "Other", Username: "admin", PasswordHash: "y"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	require.NoError(t, sp.Rollback(ctx))

	require.NoError(t, r.SetRefreshToken(ctx, created.ID, "tok"))
	got, err := r.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "tok", got.RefreshToken)

	require.NoError(t, r.Delete(ctx, created.ID))
	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
