package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/gridlock/internal/database"
	"github.com/Additional-Code/gridlock/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/gridlock/repository/user")

var (
	// ErrNotFound is returned when a user is missing.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicate is returned when the username or email is already registered.
	ErrDuplicate = errors.New("username or email already registered")
)

// Repository encapsulates read/write access for users.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// Create persists a new user. Uniqueness is checked inside the same
// transaction as the insert.
func (r *Repository) Create(ctx context.Context, user *entity.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	ctx, span := repoTracer.Start(ctx, "UserRepository.Create", trace.WithAttributes(attribute.String("user.username", user.Username)))
	defer span.End()

	err := r.writer.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().
			Model((*entity.User)(nil)).
			Where("u.username = ? OR u.email = ?", user.Username, user.Email).
			Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}
		_, err = tx.NewInsert().Model(user).Exec(ctx)
		return err
	})
	if err != nil && !errors.Is(err, ErrDuplicate) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
	}
	return err
}

// GetByID fetches a user by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.GetByID", trace.WithAttributes(attribute.Int64("user.id", id)))
	defer span.End()

	user := new(entity.User)
	err := r.reader.NewSelect().Model(user).Where("u.id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return user, nil
}

// List returns all users newest first.
func (r *Repository) List(ctx context.Context) ([]entity.User, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.List")
	defer span.End()

	var users []entity.User
	err := r.reader.NewSelect().Model(&users).OrderExpr("u.created_at DESC, u.id DESC").Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return users, nil
}

// Count returns the number of registered users.
func (r *Repository) Count(ctx context.Context) (int, error) {
	ctx, span := repoTracer.Start(ctx, "UserRepository.Count")
	defer span.End()

	n, err := r.reader.NewSelect().Model((*entity.User)(nil)).Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count failed")
	}
	return n, err
}
