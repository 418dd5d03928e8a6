// Package sqliterepo is a SQLite backed users.UserRepo for deployments that
// need registrations to survive a restart.
package sqliterepo

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/jrsteele09/post-scheduler/internal/errors"
	"github.com/jrsteele09/post-scheduler/internal/sqlitedb"
	"github.com/jrsteele09/post-scheduler/users"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

var _ users.UserRepo = (*UserRepo)(nil)

type UserRepo struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at dbPath and migrates it.
func Open(ctx context.Context, dbPath string) (*UserRepo, error) {
	db, err := sqlitedb.Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	repo, err := New(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// New migrates db and wraps it. The caller keeps ownership of db.
func New(ctx context.Context, db *sql.DB) (*UserRepo, error) {
	migrations, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migrations fs: %w", err)
	}
	if err := sqlitedb.Migrate(ctx, db, migrations); err != nil {
		return nil, fmt.Errorf("migrate users: %w", err)
	}
	return &UserRepo{db: db}, nil
}

func (r *UserRepo) Close() error {
	return r.db.Close()
}

// Insert relies on the UNIQUE email column, so duplicate detection is atomic
// with the write.
func (r *UserRepo) Insert(ctx context.Context, user *users.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}
	email := users.NormalizeEmail(user.Email)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, password_hash, date_joined) VALUES (?, ?, ?, ?)`,
		user.ID, email, user.PasswordHash, user.DateJoined,
	)
	if err != nil {
		if sqlitedb.IsUniqueConstraintError(err) {
			return apperrors.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.Email = email
	return nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, date_joined FROM users WHERE email = ?`, users.NormalizeEmail(email))
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, date_joined FROM users WHERE id = ?`, id)
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*users.User, error) {
	user := &users.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.DateJoined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return user, nil
}
