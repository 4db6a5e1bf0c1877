package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wanderlist/internal/models"
)

type CategoryRepository interface {
	CreateCategory(cat *models.Category) error
	ListCategories() ([]models.Category, error)
	UpdateCategory(cat *models.Category) error
	DeleteCategory(id int64) error
}

type categoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewCategoryRepository(db *sqlx.DB, logger *zap.Logger) CategoryRepository {
	return &categoryRepository{db: db, logger: logger}
}

func (r *categoryRepository) CreateCategory(cat *models.Category) error {
	query := `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id, created_at`
	return r.db.QueryRowx(query, cat.Name, cat.Slug).Scan(&cat.ID, &cat.CreatedAt)
}

func (r *categoryRepository) ListCategories() ([]models.Category, error) {
	categories := []models.Category{}
	query := `SELECT id, name, slug, created_at FROM categories ORDER BY name`
	if err := r.db.Select(&categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) UpdateCategory(cat *models.Category) error {
	_, err := r.db.Exec(`UPDATE categories SET name = $2, slug = $3 WHERE id = $1`,
		cat.ID, cat.Name, cat.Slug)
	return err
}

func (r *categoryRepository) DeleteCategory(id int64) error {
	_, err := r.db.Exec(`DELETE FROM categories WHERE id = $1`, id)
	return err
}
