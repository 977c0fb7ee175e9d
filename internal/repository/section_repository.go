package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/csmentors/scheduler-api/internal/models"
)

// SectionRepository reads section snapshots with their spacetimes, pending
// overrides, and current occupancy.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository constructs the repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

// sectionRow flattens the listing join for scanning.
type sectionRow struct {
	ID            string `db:"id"`
	CourseID      string `db:"course_id"`
	MentorID      string `db:"mentor_id"`
	Capacity      int    `db:"capacity"`
	CourseName    string `db:"course_name"`
	MentorName    string `db:"mentor_name"`
	MentorEmail   string `db:"mentor_email"`
	EnrolledCount int    `db:"enrolled_count"`

	SpacetimeID     string           `db:"spacetime_id"`
	DayOfWeek       models.DayOfWeek `db:"day_of_week"`
	StartTime       string           `db:"start_time"`
	DurationMinutes int              `db:"duration_minutes"`
	Location        string           `db:"location"`

	OverrideID        sql.NullString `db:"override_id"`
	OverrideDate      sql.NullTime   `db:"override_date"`
	OverrideDay       sql.NullString `db:"override_day"`
	OverrideStart     sql.NullString `db:"override_start"`
	OverrideLocation  sql.NullString `db:"override_location"`
}

const sectionSelect = `SELECT s.id, s.course_id, s.mentor_id, s.capacity,
        c.name AS course_name, u.full_name AS mentor_name, u.email AS mentor_email,
        (SELECT COUNT(*) FROM students st WHERE st.section_id = s.id) AS enrolled_count,
        sp.id AS spacetime_id, sp.day_of_week, sp.start_time, sp.duration_minutes, sp.location,
        o.id AS override_id, o.date AS override_date, o.day_of_week AS override_day,
        o.start_time AS override_start, o.location AS override_location
        FROM sections s
        JOIN courses c ON c.id = s.course_id
        JOIN mentors m ON m.id = s.mentor_id
        JOIN users u ON u.id = m.user_id
        JOIN spacetimes sp ON sp.section_id = s.id
        LEFT JOIN spacetime_overrides o ON o.spacetime_id = sp.id AND o.date >= $1`

// ListByCourse returns section snapshots for a course. now anchors which
// overrides are still pending; expired ones never leave the database layer.
func (r *SectionRepository) ListByCourse(ctx context.Context, courseID string, now time.Time) ([]models.SectionDetail, error) {
	query := sectionSelect + ` WHERE s.course_id = $2 ORDER BY sp.day_of_week, sp.start_time`
	var rows []sectionRow
	if err := r.db.SelectContext(ctx, &rows, query, today(now), courseID); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	details := make([]models.SectionDetail, 0, len(rows))
	for _, row := range rows {
		details = append(details, row.toDetail())
	}
	return details, nil
}

// FindDetailByID returns one section snapshot.
func (r *SectionRepository) FindDetailByID(ctx context.Context, id string, now time.Time) (*models.SectionDetail, error) {
	query := sectionSelect + ` WHERE s.id = $2`
	var row sectionRow
	if err := r.db.GetContext(ctx, &row, query, today(now), id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	detail := row.toDetail()
	return &detail, nil
}

// CountEnrolled returns a section's current occupancy.
func (r *SectionRepository) CountEnrolled(ctx context.Context, sectionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM students WHERE section_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, sectionID); err != nil {
		return 0, fmt.Errorf("count enrolled: %w", err)
	}
	return count, nil
}

func (row sectionRow) toDetail() models.SectionDetail {
	detail := models.SectionDetail{
		Section: models.Section{
			ID:       row.ID,
			CourseID: row.CourseID,
			MentorID: row.MentorID,
			Capacity: row.Capacity,
		},
		CourseName:    row.CourseName,
		MentorName:    row.MentorName,
		MentorEmail:   row.MentorEmail,
		EnrolledCount: row.EnrolledCount,
		Spacetime: models.Spacetime{
			ID:              row.SpacetimeID,
			SectionID:       row.ID,
			DayOfWeek:       row.DayOfWeek,
			StartTime:       row.StartTime,
			DurationMinutes: row.DurationMinutes,
			Location:        row.Location,
		},
	}
	if row.OverrideID.Valid {
		detail.Override = &models.SpacetimeOverride{
			ID:          row.OverrideID.String,
			SpacetimeID: row.SpacetimeID,
			Date:        row.OverrideDate.Time,
			DayOfWeek:   models.DayOfWeek(row.OverrideDay.String),
			StartTime:   row.OverrideStart.String,
			Location:    row.OverrideLocation.String,
		}
	}
	return detail
}

func today(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}
