package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wanderlist/internal/models"
)

type ReviewRepository interface {
	// UpsertReview keeps one review per user per location: posting again
	// replaces the previous rating and comment.
	UpsertReview(review *models.Review) error
	GetReviewByID(id int64) (*models.Review, error)
	ListReviewsByLocation(locationID int64, limit, offset int) ([]models.Review, error)
	DeleteReview(id int64) error
}

type reviewRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReviewRepository(db *sqlx.DB, logger *zap.Logger) ReviewRepository {
	return &reviewRepository{db: db, logger: logger}
}

func (r *reviewRepository) UpsertReview(review *models.Review) error {
	query := `INSERT INTO reviews (location_id, user_id, rating, comment)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (location_id, user_id)
	          DO UPDATE SET rating = EXCLUDED.rating, comment = EXCLUDED.comment
	          RETURNING id, created_at`
	return r.db.QueryRowx(query,
		review.LocationID, review.UserID, review.Rating, review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

func (r *reviewRepository) GetReviewByID(id int64) (*models.Review, error) {
	var review models.Review
	query := `SELECT r.id, r.location_id, r.user_id, r.rating, r.comment, r.created_at,
	                 u.name AS author_name, u.avatar AS author_avatar
	          FROM reviews r JOIN users u ON u.id = r.user_id WHERE r.id = $1`
	if err := r.db.Get(&review, query, id); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListReviewsByLocation(locationID int64, limit, offset int) ([]models.Review, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reviews := []models.Review{}
	query := `SELECT r.id, r.location_id, r.user_id, r.rating, r.comment, r.created_at,
	                 u.name AS author_name, u.avatar AS author_avatar
	          FROM reviews r JOIN users u ON u.id = r.user_id
	          WHERE r.location_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`
	if err := r.db.Select(&reviews, query, locationID, limit, offset); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) DeleteReview(id int64) error {
	_, err := r.db.Exec(`DELETE FROM reviews WHERE id = $1`, id)
	return err
}
