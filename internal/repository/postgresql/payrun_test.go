package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/payroll"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var payrunCols = []string{"id", "month", "year", "status", "created_by", "created_at", "updated_at", "line_count", "failed_count"}

func TestPayrunRepository_CreateDuplicatePeriod(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayrunRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payruns")).
		WithArgs(11, 2025, "user-1").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: payrunsOpenPeriodKey})

	_, err = repo.Create(context.Background(), payroll.Payrun{Month: 11, Year: 2025, CreatedBy: "user-1"})
	assert.ErrorIs(t, err, payroll.ErrPayrunExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrunRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayrunRepository(mock)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO payruns")).
		WithArgs(11, 2025, "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "status", "created_at", "updated_at"}).
			AddRow("run-1", "draft", now, now))

	run, err := repo.Create(context.Background(), payroll.Payrun{Month: 11, Year: 2025, CreatedBy: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, payroll.PayrunStatusDraft, run.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPayrunRepository_Transition(t *testing.T) {
	now := time.Now().UTC()

	t.Run("applied", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPayrunRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE payruns")).
			WithArgs("run-1", pgxmock.AnyArg(), "completed").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("run-1"))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
			WithArgs("run-1").
			WillReturnRows(pgxmock.NewRows(payrunCols).AddRow("run-1", 11, 2025, "completed", "user-1", now, now, 3, 1))

		run, err := repo.Transition(context.Background(), "run-1",
			[]payroll.PayrunStatus{payroll.PayrunStatusProcessing}, payroll.PayrunStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, payroll.PayrunStatusCompleted, run.Status)
		assert.Equal(t, 3, run.LineCount)
		assert.Equal(t, 1, run.FailedCount)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("illegal source", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPayrunRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE payruns")).
			WithArgs("run-1", pgxmock.AnyArg(), "completed").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
			WithArgs("run-1").
			WillReturnRows(pgxmock.NewRows(payrunCols).AddRow("run-1", 11, 2025, "cancelled", "user-1", now, now, 0, 0))

		_, err = repo.Transition(context.Background(), "run-1",
			[]payroll.PayrunStatus{payroll.PayrunStatusProcessing}, payroll.PayrunStatusCompleted)
		assert.ErrorIs(t, err, payroll.ErrInvalidTransition)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPayrunRepository(mock)

		mock.ExpectQuery(regexp.QuoteMeta("UPDATE payruns")).
			WithArgs("nope", pgxmock.AnyArg(), "cancelled").
			WillReturnRows(pgxmock.NewRows([]string{"id"}))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
			WithArgs("nope").
			WillReturnRows(pgxmock.NewRows(payrunCols))

		_, err = repo.Transition(context.Background(), "nope",
			payroll.SourcesOf(payroll.PayrunStatusCancelled), payroll.PayrunStatusCancelled)
		assert.ErrorIs(t, err, payroll.ErrPayrunNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPayrunRepository_ListFiltered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayrunRepository(mock)
	now := time.Now().UTC()
	status := payroll.PayrunStatusDraft

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payruns p WHERE p.status = $1")).
		WithArgs("draft").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(7)))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $2 OFFSET $3")).
		WithArgs("draft", 2, 4).
		WillReturnRows(pgxmock.NewRows(payrunCols).
			AddRow("run-2", 12, 2025, "draft", "user-1", now, now, 0, 0).
			AddRow("run-1", 11, 2025, "draft", "user-1", now, now, 2, 0))

	runs, total, err := repo.List(context.Background(), payroll.PayrunFilter{Status: &status, Page: 3, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 7, total)
	require.Len(t, runs, 2)
	assert.Equal(t, 12, runs[0].Month)
	assert.Equal(t, 2, runs[1].LineCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func malformedUUID(v string) error {
	return &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "` + v + `"`}
}

func TestPayrunRepository_MalformedIDIsNotFound(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPayrunRepository(mock)
		mock.ExpectQuery(regexp.QuoteMeta("WHERE p.id = $1")).
			WithArgs("not-a-uuid").
			WillReturnError(malformedUUID("not-a-uuid"))

		_, err = repo.GetByID(context.Background(), "not-a-uuid")
		require.ErrorIs(t, err, payroll.ErrPayrunNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transition", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := NewPayrunRepository(mock)
		mock.ExpectQuery(regexp.QuoteMeta("UPDATE payruns")).
			WithArgs("abc", pgxmock.AnyArg(), "completed").
			WillReturnError(malformedUUID("abc"))

		_, err = repo.Transition(context.Background(), "abc", []payroll.PayrunStatus{payroll.PayrunStatusProcessing}, payroll.PayrunStatusCompleted)
		require.ErrorIs(t, err, payroll.ErrPayrunNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPayrunRepository_ListUnpaginated(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPayrunRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payruns p")).
		WithArgs().
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY p.year DESC, p.month DESC, p.created_at DESC")).
		WithArgs().
		WillReturnRows(pgxmock.NewRows(payrunCols))

	runs, total, err := repo.List(context.Background(), payroll.PayrunFilter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, runs)
	require.NoError(t, mock.ExpectationsWereMet())
}
