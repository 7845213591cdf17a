package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"

	"simhockey/youtube-updater/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMockDB(t *testing.T, driver string) (*Database, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")
	t.Cleanup(func() { conn.Close() })

	return NewDatabaseFromDB(conn, driver, zerolog.Nop()), mock
}

func TestLivestreamRepository_UpdateLeague(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE youtube_data SET videoID = ?, isLive = ? WHERE league = ?")).
		WithArgs("abc123", "live", "shl").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := db.Livestreams.UpdateLeague(ctx, "SHL", models.VideoInfo{VideoID: "abc123", LiveStatus: "live"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_UpdateLeague_NoMatchingRow(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE youtube_data SET videoID = ?, isLive = ? WHERE league = ?")).
		WithArgs("vid", "none", "ahl").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := db.Livestreams.UpdateLeague(context.Background(), "ahl", models.VideoInfo{VideoID: "vid", LiveStatus: "none"})
	require.NoError(t, err, "An update matching no row is not an error")
	assert.Zero(t, affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_UpdateLeague_ValuesAreBound(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)
	hostile := "x', isLive = 'live' WHERE '1'='1"

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE youtube_data SET videoID = ?, isLive = ? WHERE league = ?")).
		WithArgs(hostile, "none", "smjhl").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := db.Livestreams.UpdateLeague(context.Background(), "smjhl", models.VideoInfo{VideoID: hostile, LiveStatus: "none"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_UpdateLeague_Postgres(t *testing.T) {
	db, mock := setupMockDB(t, DriverPostgres)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE youtube_data SET videoID = $1, isLive = $2 WHERE league = $3")).
		WithArgs("abc123", "upcoming", "wjc").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := db.Livestreams.UpdateLeague(context.Background(), "WJC", models.VideoInfo{VideoID: "abc123", LiveStatus: "upcoming"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_UpdateLeague_ExecFailureRollsBack(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE youtube_data").WillReturnError(boom)
	mock.ExpectRollback()

	_, err := db.Livestreams.UpdateLeague(context.Background(), "iihf", models.VideoInfo{VideoID: "v", LiveStatus: "none"})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_UpdateLeague_CommitFailure(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE youtube_data").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(sql.ErrConnDone)

	_, err := db.Livestreams.UpdateLeague(context.Background(), "shl", models.VideoInfo{VideoID: "v", LiveStatus: "live"})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_SelectAll(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)

	rows := sqlmock.NewRows([]string{"id", "league", "videoID", "isLive"}).
		AddRow(1, "shl", "abc123", "live").
		AddRow(2, "smjhl", "def456", "none").
		AddRow(3, "wjc", nil, nil)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, league, videoID, isLive FROM youtube_data ORDER BY id")).
		WillReturnRows(rows)

	livestreams, err := db.Livestreams.SelectAll(context.Background())
	require.NoError(t, err)
	require.Len(t, livestreams, 3)

	assert.Equal(t, &models.Livestream{ID: 1, League: "shl", VideoID: "abc123", IsLive: "live"}, livestreams[0])
	assert.Equal(t, "def456", livestreams[1].VideoID)
	assert.Empty(t, livestreams[2].VideoID, "NULL video id should scan as empty")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_GetByLeague(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, league, videoID, isLive FROM youtube_data WHERE league = ? LIMIT 1")).
		WithArgs("iihf").
		WillReturnRows(sqlmock.NewRows([]string{"id", "league", "videoID", "isLive"}).AddRow(4, "iihf", "ghi789", "upcoming"))

	ls, err := db.Livestreams.GetByLeague(context.Background(), "IIHF")
	require.NoError(t, err)
	assert.Equal(t, models.VideoInfo{VideoID: "ghi789", LiveStatus: "upcoming"}, ls.ToVideoInfo())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLivestreamRepository_GetByLeague_NotFound(t *testing.T) {
	db, mock := setupMockDB(t, DriverMySQL)

	mock.ExpectQuery("SELECT id, league, videoID, isLive FROM youtube_data").
		WithArgs("nhl").
		WillReturnRows(sqlmock.NewRows([]string{"id", "league", "videoID", "isLive"}))

	_, err := db.Livestreams.GetByLeague(context.Background(), "nhl")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
