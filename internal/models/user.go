package models

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive = "active"
	StatusBanned = "banned"
)

type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Username     string    `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	Status       string    `db:"status" json:"status"`
	Avatar       string    `db:"avatar" json:"avatar"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PublicProfile is the user shape returned by the credential exchange and
// profile endpoints. The password hash never leaves the repository layer.
type PublicProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Name:     u.Name,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
		Avatar:   u.Avatar,
	}
}
