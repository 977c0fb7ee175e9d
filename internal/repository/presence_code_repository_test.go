package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/csmentors/scheduler-api/internal/models"
)

func TestPresenceCodeRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPresenceCodeRepository(db)
	rows := sqlmock.NewRows([]string{"code", "label", "color_token"}).
		AddRow("", "Your section does not meet this week", "gray").
		AddRow("PR", "Present", "green")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT code, label, color_token FROM presence_codes")).
		WillReturnRows(rows)

	codes, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, codes, 2)
	require.Equal(t, "", codes[0].Code)
	require.Equal(t, "PR", codes[1].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPresenceCodeRepositorySeedIsIdempotentPerRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewPresenceCodeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO presence_codes")).
		WithArgs("PR", "Present", "green").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO presence_codes")).
		WithArgs("UN", "Unexcused Absence", "red").
		WillReturnResult(sqlmock.NewResult(0, 0)) // conflict, row kept

	err := repo.Seed(context.Background(), []models.PresenceCode{
		{Code: "PR", Label: "Present", ColorToken: "green"},
		{Code: "UN", Label: "Unexcused Absence", ColorToken: "red"},
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
