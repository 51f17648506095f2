package repositories

import (
	"context"
	"fmt"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupUserPostgresContainer(t *testing.T) (*sqlx.DB, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_PASSWORD": "password", "POSTGRES_DB": "testdb", "POSTGRES_USER": "postgres"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}

	container, err := tc.GenericContainer(context.Background(), tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)

	host, _ := container.Host(context.Background())
	port, _ := container.MappedPort(context.Background(), "5432")

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%d/testdb?sslmode=disable", host, port.Int())

	var db *sqlx.DB
	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("pgx", dsn)
		if err == nil {
			break
		}
		time.Sleep(time.Second)
	}
	assert.NoError(t, err)

	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		username VARCHAR(255) NOT NULL UNIQUE,
		email VARCHAR(60) NOT NULL UNIQUE,
		password_hash VARCHAR(128) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP NOT NULL DEFAULT NOW()
	);
	`
	_, err = db.Exec(schema)
	assert.NoError(t, err)

	teardown := func() {
		db.Close()
		container.Terminate(context.Background())
	}

	return db, teardown
}

func TestUserRepositories_Postgres(t *testing.T) {
	db, teardown := setupUserPostgresContainer(t)
	defer teardown()

	writeRepo := NewUserWriteRepository(db)
	readRepo := NewUserReadRepository(db)
	ctx := context.Background()

	alice, err := writeRepo.Create(ctx, "alice", "alice@example.com", "password123")
	assert.NoError(t, err)
	assert.NotNil(t, alice)
	assert.NotEqual(t, "password123", alice.PasswordHash)

	t.Run("DuplicateUsername", func(t *testing.T) {
		user, err := writeRepo.Create(ctx, "alice", "alice2@example.com", "pw456")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Nil(t, user)

		// No second row was created.
		var n int
		assert.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM users WHERE username=$1", "alice"))
		assert.Equal(t, 1, n)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		user, err := writeRepo.Create(ctx, "alice2", "alice@example.com", "pw456")
		assert.ErrorIs(t, err, ErrUserAlreadyExists)
		assert.Nil(t, user)
	})

	t.Run("ByUsername", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "alice")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, alice.UserID, user.UserID)
	})

	t.Run("ByUsernameOrEmail", func(t *testing.T) {
		user, err := readRepo.GetByUsernameOrEmail(ctx, "someone-else", "alice@example.com")
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("ByID", func(t *testing.T) {
		user, err := readRepo.GetByID(ctx, alice.UserID)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("NotFound", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "nonexistent")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("VerifyPassword", func(t *testing.T) {
		user, err := readRepo.GetByUsername(ctx, "alice")
		assert.NoError(t, err)
		assert.True(t, VerifyPassword(user, "password123"))
		assert.False(t, VerifyPassword(user, "wrong"))
	})
}
