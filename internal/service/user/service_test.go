package user

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Additional-Code/gridlock/internal/cache"
	"github.com/Additional-Code/gridlock/internal/database/databasetest"
	"github.com/Additional-Code/gridlock/internal/dto"
	"github.com/Additional-Code/gridlock/internal/entity"
	"github.com/Additional-Code/gridlock/internal/metrics"
	repo "github.com/Additional-Code/gridlock/internal/repository/user"
	"github.com/Additional-Code/gridlock/internal/validation"
	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

func newService(t *testing.T) (*Service, *repo.Repository) {
	t.Helper()
	r := repo.NewRepository(databasetest.New(t))
	svc := NewService(Params{
		Repository: r,
		Cache:      cache.NoopStore{},
		Validator:  validation.New(),
		Metrics:    metrics.Nop(),
		Logger:     zap.NewNop(),
	})
	svc.cost = bcrypt.MinCost
	return svc, r
}

func registration(username string) dto.RegisterUserRequest {
	return dto.RegisterUserRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "Password123",
	}
}

func TestRegister_HashesAndDefaultsRole(t *testing.T) {
	svc, r := newService(t)
	ctx := context.Background()

	got, err := svc.Register(ctx, registration("johndoe"))
	require.NoError(t, err)
	require.NotZero(t, got.ID)
	require.Equal(t, entity.RoleBidder, got.Role)
	require.Equal(t, 1.0, testutil.ToFloat64(svc.metrics.UsersRegistered))

	stored, err := r.GetByID(ctx, got.ID)
	require.NoError(t, err)
	require.NotEqual(t, "Password123", stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("Password123")))
}

func TestRegister_Rejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registration("janesmith"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration("janesmith"))
	require.True(t, errorbank.Is(err, errorbank.KindConflict))

	tests := []struct {
		name   string
		mutate func(*dto.RegisterUserRequest)
		field  string
	}{
		{name: "bad_email", mutate: func(r *dto.RegisterUserRequest) { r.Email = "nope" }, field: "email"},
		{name: "short_password", mutate: func(r *dto.RegisterUserRequest) { r.Password = "short" }, field: "password"},
		{name: "weak_password", mutate: func(r *dto.RegisterUserRequest) { r.Password = "password123" }, field: "password"},
		{name: "unknown_role", mutate: func(r *dto.RegisterUserRequest) { r.Role = "root" }, field: "role"},
		{name: "missing_username", mutate: func(r *dto.RegisterUserRequest) { r.Username = "  " }, field: "username"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := registration("mikejohnson")
			tc.mutate(&req)

			_, err := svc.Register(ctx, req)
			require.True(t, errorbank.Is(err, errorbank.KindValidation))
			require.Contains(t, errorbank.From(err).Details(), tc.field)
		})
	}
}

func TestList_NewestFirst(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	for _, name := range []string{"sarahwilson", "davidbrown"} {
		_, err := svc.Register(ctx, registration(name))
		require.NoError(t, err)
	}

	users, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	require.Equal(t, "davidbrown", users[0].Username)
}
