package repository

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wanderlist/internal/models"
)

type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id int64) (*models.User, error)
	ListUsers(limit, offset int) ([]models.User, error)
	UpdateProfile(id int64, name, avatar string) error
	UpdateRole(id int64, role string) error
	UpdateStatus(id int64, status string) error
}

type userRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewUserRepository(db *sqlx.DB, logger *zap.Logger) UserRepository {
	return &userRepository{db: db, logger: logger}
}

func (r *userRepository) CreateUser(user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	query := `INSERT INTO users (name, username, email, password_hash, role, status, avatar)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id, created_at`
	return r.db.QueryRowx(query,
		user.Name, user.Username, user.Email, user.PasswordHash,
		user.Role, user.Status, user.Avatar,
	).Scan(&user.ID, &user.CreatedAt)
}

// GetUserByEmail matches case-insensitively; emails are stored lower-cased.
func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, username, email, password_hash, role, status, avatar, created_at
	          FROM users WHERE email = $1`
	if err := r.db.Get(&user, query, strings.ToLower(email)); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(id int64) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, username, email, password_hash, role, status, avatar, created_at
	          FROM users WHERE id = $1`
	if err := r.db.Get(&user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListUsers(limit, offset int) ([]models.User, error) {
	users := []models.User{}
	query := `SELECT id, name, username, email, password_hash, role, status, avatar, created_at
	          FROM users ORDER BY id LIMIT $1 OFFSET $2`
	if err := r.db.Select(&users, query, limit, offset); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) UpdateProfile(id int64, name, avatar string) error {
	query := `UPDATE users SET name = COALESCE(NULLIF($2, ''), name),
	                           avatar = COALESCE(NULLIF($3, ''), avatar)
	          WHERE id = $1`
	_, err := r.db.Exec(query, id, name, avatar)
	return err
}

func (r *userRepository) UpdateRole(id int64, role string) error {
	_, err := r.db.Exec(`UPDATE users SET role = $2 WHERE id = $1`, id, role)
	return err
}

func (r *userRepository) UpdateStatus(id int64, status string) error {
	_, err := r.db.Exec(`UPDATE users SET status = $2 WHERE id = $1`, id, status)
	return err
}
