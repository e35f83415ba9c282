package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/gridlock/internal/database/databasetest"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/repository/user"
)

func TestCreate_RejectsDuplicates(t *testing.T) {
	repo := user.NewRepository(databasetest.New(t))
	ctx := context.Background()
	now := time.Now().UTC()

	alice := &entity.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h", Role: entity.RoleBidder, CreatedAt: now}
	require.NoError(t, repo.Create(ctx, alice))
	require.NotZero(t, alice.ID)

	sameName := &entity.User{Username: "alice", Email: "other@example.com", PasswordHash: "h", Role: entity.RoleBidder, CreatedAt: now}
	require.ErrorIs(t, repo.Create(ctx, sameName), user.ErrDuplicate)

	sameEmail := &entity.User{Username: "alice2", Email: "alice@example.com", PasswordHash: "h", Role: entity.RoleBidder, CreatedAt: now}
	require.ErrorIs(t, repo.Create(ctx, sameEmail), user.ErrDuplicate)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestGetByIDAndList(t *testing.T) {
	repo := user.NewRepository(databasetest.New(t))
	ctx := context.Background()
	now := time.Now().UTC()

	first := &entity.User{Username: "first", Email: "f@example.com", PasswordHash: "h", Role: entity.RoleAdmin, CreatedAt: now.Add(-time.Minute)}
	second := &entity.User{Username: "second", Email: "s@example.com", PasswordHash: "h", Role: entity.RoleBidder, CreatedAt: now}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	got, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleAdmin, got.Role)

	_, err = repo.GetByID(ctx, 404)
	require.ErrorIs(t, err, user.ErrNotFound)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "second", users[0].Username)
}
