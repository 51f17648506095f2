package repositories

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"

	"github.com/connectapi/connect-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return sqlx.NewDb(db, "sqlmock"), mock
}

func userRows(user models.UserDB) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"user_id", "username", "email", "password_hash", "created_at", "updated_at"}).
		AddRow(user.UserID.String(), user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
}

func TestUserReadRepository_GetByUsernameOrEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	existing := models.UserDB{
		UserID:       uuid.New(),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectQuery("SELECT user_id, username, email, password_hash").
		WithArgs("alice", "other@x.com").
		WillReturnRows(userRows(existing))

	user, err := repo.GetByUsernameOrEmail(context.Background(), "alice", "other@x.com")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, existing.UserID, user.UserID)
	assert.Equal(t, "alice", user.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByUsernameOrEmail_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	mock.ExpectQuery("SELECT user_id, username, email, password_hash").
		WithArgs("nobody", "nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "password_hash", "created_at", "updated_at"}))

	user, err := repo.GetByUsernameOrEmail(context.Background(), "nobody", "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	existing := models.UserDB{
		UserID:       uuid.New(),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectQuery("SELECT user_id, username, email, password_hash").
		WithArgs(existing.UserID).
		WillReturnRows(userRows(existing))

	user, err := repo.GetByID(context.Background(), existing.UserID)
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, existing.Username, user.Username)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReadRepository_GetByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserReadRepository(db)

	existing := models.UserDB{
		UserID:       uuid.New(),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectQuery("SELECT user_id, username, email, password_hash").
		WithArgs("alice@x.com").
		WillReturnRows(userRows(existing))

	user, err := repo.GetByEmail(context.Background(), "alice@x.com")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, existing.UserID, user.UserID)

	mock.ExpectQuery("SELECT user_id, username, email, password_hash").
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "username", "email", "password_hash", "created_at", "updated_at"}))

	user, err = repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	created := models.UserDB{
		UserID:       uuid.New(),
		Username:     "alice",
		Email:        "alice@x.com",
		PasswordHash: "$2a$10$abcdefghijklmnopqrstuv",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@x.com", sqlmock.AnyArg()).
		WillReturnRows(userRows(created))

	user, err := repo.Create(context.Background(), "alice", "alice@x.com", "pw123")
	assert.NoError(t, err)
	assert.Equal(t, created.UserID, user.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriteRepository_Create_UniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@x.com", sqlmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "users_username_key"})

	user, err := repo.Create(context.Background(), "alice", "alice@x.com", "pw123")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	assert.Nil(t, user)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerifyPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.DefaultCost)
	assert.NoError(t, err)

	user := &models.UserDB{PasswordHash: string(hash)}

	assert.True(t, VerifyPassword(user, "correct horse"))
	assert.False(t, VerifyPassword(user, "battery staple"))
}

func TestUserWriteRepository_Create_HashesPassword(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserWriteRepository(db)

	var storedHash string
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", "alice@x.com", hashCaptor{&storedHash}).
		WillReturnRows(userRows(models.UserDB{UserID: uuid.New(), Username: "alice", Email: "alice@x.com"}))

	_, err := repo.Create(context.Background(), "alice", "alice@x.com", "pw123")
	assert.NoError(t, err)

	// The stored value is a salted hash verifying the plaintext, never the
	// plaintext itself.
	assert.NotEqual(t, "pw123", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("pw123")))

	assert.NoError(t, mock.ExpectationsWereMet())
}

// hashCaptor matches any string argument and records it.
type hashCaptor struct {
	dst *string
}

func (c hashCaptor) Match(v driver.Value) bool {
	s, ok := v.(string)
	if ok {
		*c.dst = s
	}
	return ok
}
