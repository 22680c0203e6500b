package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/pghub/internal/app/store/datastore"
	"github.com/dalemusser/pghub/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_NormalizesAndInvalidates(t *testing.T) {
	repo := &fakeRepo{buildings: seed()}
	c, clk := newCache(t, repo, Options{})
	ctx := context.Background()

	c.All(ctx, false)
	require.Equal(t, 1, repo.listCalls())

	b, err := c.Create(ctx, Input{
		Code:         " d4 ",
		Name:         "  Daisy   House ",
		ContactPhone: "98450 12345",
		TotalRooms:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, "D4", b.Code)
	assert.Equal(t, "Daisy House", b.Name)
	assert.Equal(t, "9845012345", b.ContactPhone)
	assert.Equal(t, models.StatusActive, b.Status)
	assert.True(t, b.CreatedAt.Equal(clk.Now()))
	assert.True(t, b.UpdatedAt.Equal(clk.Now()))
	assert.True(t, c.FetchedAt().IsZero(), "create must invalidate")

	assert.True(t, c.Exists(ctx, "D4"))
	assert.Equal(t, 2, repo.listCalls())
}

func TestCreate_InvalidCode(t *testing.T) {
	repo := &fakeRepo{buildings: seed()}
	c, _ := newCache(t, repo, Options{})

	_, err := c.Create(context.Background(), Input{Code: "12", Name: "Bad"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCode))
	assert.Empty(t, repo.created)
}

func TestCreate_PropagatesWriteFailure(t *testing.T) {
	repo := &fakeRepo{
		buildings: seed(),
		writeErr:  &datastore.APIError{Op: "insert", Table: "buildings", Status: 409, Body: "duplicate"},
	}
	c, _ := newCache(t, repo, Options{})
	ctx := context.Background()
	c.All(ctx, false)

	_, err := c.Create(ctx, Input{Code: "E5", Name: "Elm"})
	require.Error(t, err)
	var apiErr *datastore.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 409, apiErr.Status)
	assert.True(t, c.FetchedAt().IsZero(), "invalidation is unconditional")
}

func TestUpdate_InvalidatesAndSendsFields(t *testing.T) {
	repo := &fakeRepo{buildings: seed()}
	c, _ := newCache(t, repo, Options{})
	ctx := context.Background()

	c.All(ctx, false)
	b, err := c.Update(ctx, "1", Input{Code: "a1", Name: "Amber Court", Status: "ACTIVE", TotalCapacity: 10})
	require.NoError(t, err)
	assert.Equal(t, "Amber Court", b.Name)

	require.Len(t, repo.updates, 1)
	fields := repo.updates[0]
	assert.Equal(t, "A1", fields["code"])
	assert.Equal(t, "active", fields["status"])
	assert.Equal(t, 10, fields["total_capacity"])
	assert.NotEmpty(t, fields["updated_at"])

	got, ok := c.ByCode(ctx, "A1")
	require.True(t, ok)
	assert.Equal(t, "Amber Court", got.Name)
	assert.Equal(t, 2, repo.listCalls())
}

func TestUpdate_InvalidCode(t *testing.T) {
	repo := &fakeRepo{buildings: seed()}
	c, _ := newCache(t, repo, Options{})
	_, err := c.Update(context.Background(), "1", Input{Code: "A-1"})
	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, repo.updates)
}

func TestSetStatus(t *testing.T) {
	repo := &fakeRepo{buildings: seed()}
	c, _ := newCache(t, repo, Options{})
	ctx := context.Background()

	require.True(t, c.Exists(ctx, "C3"))
	_, err := c.SetStatus(ctx, "3", "inactive")
	require.NoError(t, err)
	assert.False(t, c.Exists(ctx, "C3"))

	_, err = c.SetStatus(ctx, "2", models.StatusActive)
	require.NoError(t, err)
	assert.True(t, c.Exists(ctx, "B2"))

	_, err = c.SetStatus(ctx, "2", "deleted")
	assert.Error(t, err)
}
