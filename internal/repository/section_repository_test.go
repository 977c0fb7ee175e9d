package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/csmentors/scheduler-api/internal/models"
)

var sectionColumns = []string{
	"id", "course_id", "mentor_id", "capacity",
	"course_name", "mentor_name", "mentor_email", "enrolled_count",
	"spacetime_id", "day_of_week", "start_time", "duration_minutes", "location",
	"override_id", "override_date", "override_day", "override_start", "override_location",
}

func TestSectionRepositoryListByCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSectionRepository(db)
	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(sectionColumns).
		AddRow("s1", "c1", "m1", 5, "CS61A", "Alice Mentor", "alice@berkeley.edu", 3,
			"sp1", "Monday", "10:00:00", 60, "Soda 283",
			nil, nil, nil, nil, nil).
		AddRow("s2", "c1", "m2", 4, "CS61A", "Bob Mentor", "bob@berkeley.edu", 4,
			"sp2", "Tuesday", "14:00:00", 60, "Cory 247",
			"ov1", time.Date(2026, 2, 17, 0, 0, 0, 0, time.UTC), "Wednesday", "15:00:00", "Online")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.course_id, s.mentor_id, s.capacity")).
		WithArgs(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), "c1").
		WillReturnRows(rows)

	sections, err := repo.ListByCourse(context.Background(), "c1", now)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	require.Nil(t, sections[0].Override)
	require.Equal(t, models.Monday, sections[0].Spacetime.DayOfWeek)
	require.Equal(t, 2, sections[0].Available())

	require.NotNil(t, sections[1].Override)
	require.Equal(t, models.Wednesday, sections[1].Override.DayOfWeek)
	require.Equal(t, 0, sections[1].Available())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryFindDetailByIDMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSectionRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT s.id, s.course_id, s.mentor_id, s.capacity")).
		WillReturnRows(sqlmock.NewRows(sectionColumns))

	section, err := repo.FindDetailByID(context.Background(), "nope", time.Now())
	require.NoError(t, err)
	require.Nil(t, section)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSectionRepositoryCountEnrolled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewSectionRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM students")).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountEnrolled(context.Background(), "s1")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}
