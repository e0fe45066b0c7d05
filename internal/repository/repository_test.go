package repository

import (
	"testing"
	"time"

	"github.com/contentdee/contentdee/internal/db"
	"github.com/contentdee/contentdee/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB opens an in-memory SQLite database and applies the real
// migrations. Max one open connection, otherwise every pooled connection
// would see its own empty memory database.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	err = db.RunMigrations(conn.DB, "sqlite")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
	})

	return conn
}

func strPtr(s string) *string { return &s }

func newUser(username, email, subdomain string) *model.User {
	hash := "$2a$10$fakefakefakefakefakefakefakefakefakefakefakefakefake"
	return &model.User{
		ID:                uuid.New().String(),
		Username:          username,
		PasswordHash:      &hash,
		Email:             email,
		BusinessName:      username + " shop",
		Subdomain:         subdomain,
		CreatedAt:         time.Now().UTC(),
		PreferredLanguage: "th",
	}
}
