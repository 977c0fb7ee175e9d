package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/csmentors/scheduler-api/internal/models"
)

// AttendanceRepository persists attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByStudent returns a student's records ordered by occurrence date
// ascending. Clients reverse and group the flat list into weekly cohorts.
func (r *AttendanceRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT a.id, a.student_id, u.full_name AS student_name, a.date, a.presence
        FROM attendances a
        JOIN students st ON st.id = a.student_id
        JOIN users u ON u.id = st.user_id
        WHERE a.student_id = $1
        ORDER BY a.date ASC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendances: %w", err)
	}
	return records, nil
}

// ListBySection returns all records for a section's current roster ordered
// by date then student name. Used for mentor sheets and report export.
func (r *AttendanceRepository) ListBySection(ctx context.Context, sectionID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT a.id, a.student_id, u.full_name AS student_name, a.date, a.presence
        FROM attendances a
        JOIN students st ON st.id = a.student_id
        JOIN users u ON u.id = st.user_id
        WHERE st.section_id = $1
        ORDER BY a.date ASC, u.full_name`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section attendances: %w", err)
	}
	return records, nil
}

// FindByID returns one record.
func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (*models.AttendanceRecord, error) {
	const query = `SELECT a.id, a.student_id, u.full_name AS student_name, a.date, a.presence
        FROM attendances a
        JOIN students st ON st.id = a.student_id
        JOIN users u ON u.id = st.user_id
        WHERE a.id = $1`
	var record models.AttendanceRecord
	if err := r.db.GetContext(ctx, &record, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// UpdatePresence sets the presence value. Everything else on a record is
// immutable once created.
func (r *AttendanceRepository) UpdatePresence(ctx context.Context, id, presence string) error {
	const query = `UPDATE attendances SET presence = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, presence); err != nil {
		return fmt.Errorf("update presence: %w", err)
	}
	return nil
}

// Create inserts a record, typically when seeding the enrollment week.
func (r *AttendanceRepository) Create(ctx context.Context, studentID string, date time.Time, presence string) (string, error) {
	id := uuid.NewString()
	const query = `INSERT INTO attendances (id, student_id, date, presence) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, query, id, studentID, date, presence); err != nil {
		return "", fmt.Errorf("create attendance: %w", err)
	}
	return id, nil
}
