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

// StudentRepository persists enrollment profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// ListProfilesByUser returns every scheduler profile the user holds, both
// enrollments and mentorships.
func (r *StudentRepository) ListProfilesByUser(ctx context.Context, userID string) ([]models.Profile, error) {
	const query = `SELECT st.id, 'student' AS role, c.id AS course_id, c.name AS course_name, st.section_id
        FROM students st
        JOIN courses c ON c.id = st.course_id
        WHERE st.user_id = $1
        UNION ALL
        SELECT m.id, 'mentor' AS role, c.id AS course_id, c.name AS course_name, m.section_id
        FROM mentors m
        JOIN sections s ON s.id = m.section_id
        JOIN courses c ON c.id = s.course_id
        WHERE m.user_id = $1
        ORDER BY course_name`
	var profiles []models.Profile
	if err := r.db.SelectContext(ctx, &profiles, query, userID); err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	return profiles, nil
}

// FindByID returns one enrollment profile.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, user_id, section_id, course_id, joined_at FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &student, nil
}

// ExistsInCourse reports whether the user already holds a section of the
// course. One active enrollment per course is the uniqueness invariant.
func (r *StudentRepository) ExistsInCourse(ctx context.Context, userID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM students WHERE user_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, userID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check course enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment profile.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	if student.JoinedAt.IsZero() {
		student.JoinedAt = time.Now().UTC()
	}
	const query = `INSERT INTO students (id, user_id, section_id, course_id, joined_at)
        VALUES (:id, :user_id, :section_id, :course_id, :joined_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create enrollment profile: %w", err)
	}
	return nil
}

// Delete destroys an enrollment profile. A successful drop removes the row;
// the student's attendance history stays behind.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment profile: %w", err)
	}
	return nil
}

// ListBySection returns the roster for a section ordered by student name.
func (r *StudentRepository) ListBySection(ctx context.Context, sectionID string) ([]models.StudentDetail, error) {
	const query = `SELECT st.id, st.user_id, st.section_id, st.course_id, st.joined_at,
        u.full_name, u.email
        FROM students st
        JOIN users u ON u.id = st.user_id
        WHERE st.section_id = $1
        ORDER BY u.full_name`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section roster: %w", err)
	}
	return students, nil
}
