package repository

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wanderlist/internal/models"
)

// LocationFilter narrows the public listing. Zero values mean "no filter".
type LocationFilter struct {
	CategoryID int64
	Query      string
	Status     string
	Limit      int
	Offset     int
}

type LocationRepository interface {
	CreateLocation(loc *models.Location) error
	GetLocationByID(id int64) (*models.Location, error)
	ListLocations(filter LocationFilter) ([]models.Location, error)
	UpdateLocation(loc *models.Location) error
	UpdateStatus(id int64, status string) error
	DeleteLocation(id int64) error
}

type locationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewLocationRepository(db *sqlx.DB, logger *zap.Logger) LocationRepository {
	return &locationRepository{db: db, logger: logger}
}

const locationColumns = `l.id, l.name, l.description, l.country, l.city, l.category_id,
	l.photo, l.status, l.created_by, l.created_at,
	COALESCE(AVG(r.rating), 0) AS avg_rating,
	COUNT(r.id) AS review_count`

func (r *locationRepository) CreateLocation(loc *models.Location) error {
	query := `INSERT INTO locations (name, description, country, city, category_id, photo, status, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	return r.db.QueryRowx(query,
		loc.Name, loc.Description, loc.Country, loc.City,
		loc.CategoryID, loc.Photo, loc.Status, loc.CreatedBy,
	).Scan(&loc.ID, &loc.CreatedAt)
}

func (r *locationRepository) GetLocationByID(id int64) (*models.Location, error) {
	var loc models.Location
	query := fmt.Sprintf(`SELECT %s FROM locations l
	          LEFT JOIN reviews r ON r.location_id = l.id
	          WHERE l.id = $1 GROUP BY l.id`, locationColumns)
	if err := r.db.Get(&loc, query, id); err != nil {
		return nil, err
	}
	return &loc, nil
}

func (r *locationRepository) ListLocations(filter LocationFilter) ([]models.Location, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.CategoryID != 0 {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("l.category_id = $%d", len(args)))
	}
	if filter.Query != "" {
		args = append(args, "%"+filter.Query+"%")
		n := len(args)
		conditions = append(conditions, fmt.Sprintf("(l.name ILIKE $%d OR l.city ILIKE $%d OR l.country ILIKE $%d)", n, n, n))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit)
	limitPos := len(args)
	args = append(args, filter.Offset)
	offsetPos := len(args)

	query := fmt.Sprintf(`SELECT %s FROM locations l
	          LEFT JOIN reviews r ON r.location_id = l.id
	          %s GROUP BY l.id ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d`,
		locationColumns, where, limitPos, offsetPos)

	locations := []models.Location{}
	if err := r.db.Select(&locations, query, args...); err != nil {
		return nil, err
	}
	return locations, nil
}

func (r *locationRepository) UpdateLocation(loc *models.Location) error {
	query := `UPDATE locations SET name = $2, description = $3, country = $4, city = $5,
	          category_id = $6, photo = $7 WHERE id = $1`
	_, err := r.db.Exec(query,
		loc.ID, loc.Name, loc.Description, loc.Country, loc.City, loc.CategoryID, loc.Photo)
	return err
}

func (r *locationRepository) UpdateStatus(id int64, status string) error {
	_, err := r.db.Exec(`UPDATE locations SET status = $2 WHERE id = $1`, id, status)
	return err
}

func (r *locationRepository) DeleteLocation(id int64) error {
	_, err := r.db.Exec(`DELETE FROM locations WHERE id = $1`, id)
	return err
}
