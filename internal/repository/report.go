package repository

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"wanderlist/internal/models"
)

type ReportRepository interface {
	CreateReport(report *models.Report) error
	ListReports(status string, limit, offset int) ([]models.Report, error)
	ResolveReport(id int64, status string, resolvedBy int64) error
}

type reportRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewReportRepository(db *sqlx.DB, logger *zap.Logger) ReportRepository {
	return &reportRepository{db: db, logger: logger}
}

func (r *reportRepository) CreateReport(report *models.Report) error {
	query := `INSERT INTO reports (reference, target_type, target_id, reason, status, reported_by)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	return r.db.QueryRowx(query,
		report.Reference, report.TargetType, report.TargetID,
		report.Reason, report.Status, report.ReportedBy,
	).Scan(&report.ID, &report.CreatedAt)
}

func (r *reportRepository) ListReports(status string, limit, offset int) ([]models.Report, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	reports := []models.Report{}
	if status != "" {
		query := `SELECT id, reference, target_type, target_id, reason, status, reported_by, resolved_by, created_at
		          FROM reports WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
		if err := r.db.Select(&reports, query, status, limit, offset); err != nil {
			return nil, err
		}
		return reports, nil
	}
	query := `SELECT id, reference, target_type, target_id, reason, status, reported_by, resolved_by, created_at
	          FROM reports ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	if err := r.db.Select(&reports, query, limit, offset); err != nil {
		return nil, err
	}
	return reports, nil
}

func (r *reportRepository) ResolveReport(id int64, status string, resolvedBy int64) error {
	_, err := r.db.Exec(`UPDATE reports SET status = $2, resolved_by = $3 WHERE id = $1`,
		id, status, resolvedBy)
	return err
}
