package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/connectapi/connect-api/internal/logger"
	"github.com/connectapi/connect-api/internal/models"
)

// ErrUserAlreadyExists is returned when an insert violates the unique
// username or email constraint.
var ErrUserAlreadyExists = errors.New("user already exists")

type UserReadRepository struct {
	db *sqlx.DB
}

func NewUserReadRepository(db *sqlx.DB) *UserReadRepository {
	return &UserReadRepository{db: db}
}

const selectUserColumns = `
	SELECT user_id, username, email, password_hash, created_at, updated_at
	FROM users
`

// GetByUsernameOrEmail returns the first user matching either the username
// or the email. Returns nil without error when no user matches.
func (r *UserReadRepository) GetByUsernameOrEmail(ctx context.Context, username, email string) (*models.UserDB, error) {
	const query = selectUserColumns + `
		WHERE username = $1 OR email = $2
		LIMIT 1
	`
	return r.get(ctx, query, username, email)
}

// GetByUsername returns the user with the given username, or nil when absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = selectUserColumns + `
		WHERE username = $1
	`
	return r.get(ctx, query, username)
}

// GetByEmail returns the user with the given email, or nil when absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = selectUserColumns + `
		WHERE email = $1
	`
	return r.get(ctx, query, email)
}

// GetByID returns the user with the given id, or nil when absent.
func (r *UserReadRepository) GetByID(ctx context.Context, userID uuid.UUID) (*models.UserDB, error) {
	const query = selectUserColumns + `
		WHERE user_id = $1
	`
	return r.get(ctx, query, userID)
}

func (r *UserReadRepository) get(ctx context.Context, query string, args ...any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Debugw("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"args", args,
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

type UserWriteRepository struct {
	db *sqlx.DB
}

func NewUserWriteRepository(db *sqlx.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create hashes the plaintext password with a per-record salt and inserts a
// new user row. A concurrent insert that violates the username or email
// uniqueness constraint surfaces as ErrUserAlreadyExists.
func (r *UserWriteRepository) Create(ctx context.Context, username, email, password string) (*models.UserDB, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	const query = `
		INSERT INTO users (username, email, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING user_id, username, email, password_hash, created_at, updated_at
	`
	args := []any{username, email, string(hash)}

	var user models.UserDB
	err = r.db.GetContext(ctx, &user, query, args...)

	logger.Log.Debugw("user insert",
		"query", strings.Join(strings.Fields(query), " "),
		"username", username,
		"email", email,
		"error", err,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return &user, nil
}

// VerifyPassword reports whether the plaintext password matches the stored
// hash. bcrypt's comparison is constant-time with respect to mismatches.
func VerifyPassword(user *models.UserDB, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}
