package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wanderlist/internal/models"
)

type NotificationRepository interface {
	CreateNotification(n *models.Notification) error
	// Broadcast inserts one notification per active user.
	Broadcast(title, body string) (int64, error)
	ListByUser(userID int64, limit, offset int) ([]models.Notification, error)
	MarkRead(id, userID int64) error
}

type notificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) NotificationRepository {
	return &notificationRepository{db: db, logger: logger}
}

func (r *notificationRepository) CreateNotification(n *models.Notification) error {
	query := `INSERT INTO notifications (user_id, title, body)
	          VALUES ($1, $2, $3) RETURNING id, created_at`
	return r.db.QueryRowx(query, n.UserID, n.Title, n.Body).Scan(&n.ID, &n.CreatedAt)
}

func (r *notificationRepository) Broadcast(title, body string) (int64, error) {
	query := `INSERT INTO notifications (user_id, title, body)
	          SELECT id, $1, $2 FROM users WHERE status = 'active'`
	res, err := r.db.Exec(query, title, body)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *notificationRepository) ListByUser(userID int64, limit, offset int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	notifications := []models.Notification{}
	query := `SELECT id, user_id, title, body, read, created_at FROM notifications
	          WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.Select(&notifications, query, userID, limit, offset); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(id, userID int64) error {
	_, err := r.db.Exec(`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID)
	return err
}
