package letters

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/earsip/internal/common"
	"github.com/dmitrijs2005/earsip/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

var letterCols = []string{
	"id", "letter_number", "party", "date", "subject", "file_url",
	"classification_id", "number_of_copies", "archive_file_number",
	"is_archived", "recorded_by_user_id", "created_at", "updated_at",
	"code", "description",
}

var (
	day = time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	ts  = time.Date(2024, 5, 18, 9, 30, 0, 0, time.UTC)
)

func TestList_ActiveWithSearch(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)FROM\s+incoming_letters\s+l\s+LEFT\s+JOIN\s+classifications\s+c.*WHERE\s+l\.is_archived\s*=\s*\$1\s+AND\s+\(l\.letter_number\s+ILIKE\s+\$2\s+OR\s+l\.subject\s+ILIKE\s+\$2\s+OR\s+l\.sender\s+ILIKE\s+\$2\)\s+ORDER\s+BY\s+l\.created_at\s+DESC$`
	mock.ExpectQuery(q).
		WithArgs(false, "%undangan%").
		WillReturnRows(sqlmock.NewRows(letterCols).
			AddRow("l-1", "001/SM/2024", "Dinas Kesehatan", day, "Undangan rapat", nil,
				int64(2), 1, nil, false, "u-1", ts, ts, "100", "Pemerintahan").
			AddRow("l-2", "002/SM/2024", "Kecamatan", day, "Undangan", "/api/files/f-1",
				nil, 3, "A-7", false, "u-1", ts, ts, nil, nil))

	got, err := repo.List(context.Background(), models.Incoming, models.LetterFilter{Search: "undangan"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, models.Incoming, got[0].Kind)
	assert.Equal(t, "Dinas Kesehatan", got[0].Party)
	require.NotNil(t, got[0].ClassificationID)
	assert.Equal(t, int64(2), *got[0].ClassificationID)
	assert.Equal(t, "100", *got[0].ClassificationCode)
	assert.Nil(t, got[0].FileURL)

	assert.Nil(t, got[1].ClassificationID)
	assert.Equal(t, "/api/files/f-1", *got[1].FileURL)
	assert.Equal(t, "A-7", *got[1].ArchiveFileNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_ArchivedWithAllFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	classID := int64(4)
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	q := `(?s)FROM\s+outgoing_letters\s+l.*WHERE\s+l\.is_archived\s*=\s*\$1\s+AND\s+l\.classification_id\s*=\s*\$2\s+AND\s+\(.*l\.destination\s+ILIKE\s+\$3\)\s+AND\s+l\.outgoing_date\s*>=\s*\$4\s+AND\s+l\.outgoing_date\s*<=\s*\$5\s+ORDER`
	mock.ExpectQuery(q).
		WithArgs(true, classID, "%rapat%", from, to).
		WillReturnRows(sqlmock.NewRows(letterCols))

	got, err := repo.List(context.Background(), models.Outgoing, models.LetterFilter{
		Archived:         true,
		ClassificationID: &classID,
		Search:           "rapat",
		From:             &from,
		To:               &to,
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+incoming_letters`).WillReturnError(errors.New("conn reset"))

	_, err := repo.List(context.Background(), models.Incoming, models.LetterFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: conn reset")
}

func TestGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`(?s)FROM\s+outgoing_letters\s+l.*WHERE\s+l\.id\s*=\s*\$1$`).
			WithArgs("l-9").
			WillReturnRows(sqlmock.NewRows(letterCols).
				AddRow("l-9", "010/SK/2024", "Bupati", day, "Laporan", nil,
					nil, 1, nil, true, "u-2", ts, ts, nil, nil))

		l, err := repo.Get(context.Background(), models.Outgoing, "l-9")
		require.NoError(t, err)
		assert.Equal(t, "Bupati", l.Party)
		assert.True(t, l.IsArchived)
		assert.Equal(t, models.Outgoing, l.Kind)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`FROM\s+incoming_letters`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(context.Background(), models.Incoming, "nope")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+incoming_letters\s+\(id,\s*letter_number,\s*sender,\s*incoming_date,\s*subject,\s*classification_id,\s*number_of_copies,\s*archive_file_number,\s*recorded_by_user_id\)`
	mock.ExpectQuery(q).
		WithArgs("l-1", "001", "Dinas", day, "Perihal", nil, 1, nil, "u-1").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(ts, ts))

	l := &models.Letter{Kind: models.Incoming, ID: "l-1", LetterNumber: "001", Party: "Dinas",
		Date: day, Subject: "Perihal", NumberOfCopies: 1, RecordedByUserID: "u-1"}
	require.NoError(t, repo.Create(context.Background(), l))
	assert.Equal(t, ts, l.CreatedAt)
}

func TestUpdate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	classID := int64(3)
	q := `(?s)^UPDATE\s+outgoing_letters\s+SET\s+letter_number\s*=\s*\$1,\s*destination\s*=\s*\$2,\s*outgoing_date\s*=\s*\$3`
	mock.ExpectExec(q).
		WithArgs("002", "Camat", day, "Balasan", classID, 2, "B-1", true, "l-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE\s+outgoing_letters`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	archiveNo := "B-1"
	l := &models.Letter{Kind: models.Outgoing, ID: "l-2", LetterNumber: "002", Party: "Camat", Date: day,
		Subject: "Balasan", ClassificationID: &classID, NumberOfCopies: 2, ArchiveFileNumber: &archiveNo, IsArchived: true}
	assert.NoError(t, repo.Update(context.Background(), l))
	assert.ErrorIs(t, repo.Update(context.Background(), l), common.ErrorNotFound)
}

func TestDeleteAndSetFileURL(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE\s+FROM\s+incoming_letters\s+WHERE\s+id\s*=\s*\$1$`).WithArgs("l-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE\s+outgoing_letters\s+SET\s+file_url\s*=\s*\$1`).WithArgs("/api/files/f-1", "l-2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(context.Background(), models.Incoming, "l-1"))
	assert.ErrorIs(t, repo.SetFileURL(context.Background(), models.Outgoing, "l-2", "/api/files/f-1"), common.ErrorNotFound)
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT\s+COUNT\(\*\)\s+FROM\s+incoming_letters$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(`^SELECT\s+COUNT\(\*\)\s+FROM\s+outgoing_letters\s+WHERE\s+is_archived\s*=\s*\$1$`).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	all, err := repo.Count(context.Background(), models.Incoming, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(12), all)

	archived := true
	n, err := repo.Count(context.Background(), models.Outgoing, &archived)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestMalformedIDIsNotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	badUUID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	mock.ExpectQuery(`FROM\s+incoming_letters`).WithArgs("abc").WillReturnError(badUUID)
	mock.ExpectExec(`^UPDATE\s+incoming_letters\s+SET\s+letter_number`).WillReturnError(badUUID)
	mock.ExpectExec(`^DELETE\s+FROM\s+incoming_letters`).WithArgs("abc").WillReturnError(badUUID)
	mock.ExpectExec(`^UPDATE\s+incoming_letters\s+SET\s+file_url`).WithArgs("/api/files/f-1", "abc").WillReturnError(badUUID)

	ctx := context.Background()
	_, err := repo.Get(ctx, models.Incoming, "abc")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	l := &models.Letter{Kind: models.Incoming, ID: "abc", LetterNumber: "001", Party: "Dinas", Date: day, Subject: "Perihal"}
	assert.ErrorIs(t, repo.Update(ctx, l), common.ErrorNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, models.Incoming, "abc"), common.ErrorNotFound)
	assert.ErrorIs(t, repo.SetFileURL(ctx, models.Incoming, "abc", "/api/files/f-1"), common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
