package repository

import (
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"wanderlist/internal/models"
)

func newMockRepo(t *testing.T) (UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewUserRepository(sqlx.NewDb(db, "sqlmock"), zap.NewNop()), mock
}

func userRows(u models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "username", "email", "password_hash", "role", "status", "avatar", "created_at",
	}).AddRow(u.ID, u.Name, u.Username, u.Email, u.PasswordHash, u.Role, u.Status, u.Avatar, u.CreatedAt)
}

func TestGetUserByEmail_LowercasesInput(t *testing.T) {
	repo, mock := newMockRepo(t)

	stored := models.User{
		ID: 1, Name: "Alice", Username: "alice", Email: "alice@example.com",
		PasswordHash: "$argon2id$...", Role: models.RoleUser, Status: models.StatusActive,
		CreatedAt: time.Now(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("alice@example.com").
		WillReturnRows(userRows(stored))

	user, err := repo.GetUserByEmail("Alice@Example.COM")
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_StoresLowercaseEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Bob", "bob", "bob@example.com", "hash", models.RoleUser, models.StatusActive, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now()))

	user := &models.User{
		Name: "Bob", Username: "bob", Email: "Bob@Example.com",
		PasswordHash: "hash", Role: models.RoleUser, Status: models.StatusActive,
	}
	require.NoError(t, repo.CreateUser(user))
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, "bob@example.com", user.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRole(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET role = $2 WHERE id = $1")).
		WithArgs(int64(3), models.RoleAdmin).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateRole(3, models.RoleAdmin))
	assert.NoError(t, mock.ExpectationsWereMet())
}
