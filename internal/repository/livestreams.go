package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"simhockey/youtube-updater/internal/metrics"
	"simhockey/youtube-updater/internal/models"

	sq "github.com/Masterminds/squirrel"
)

const livestreamTable = "youtube_data"

// ErrNotFound is returned when no row matches a league
var ErrNotFound = errors.New("livestream not found")

// LivestreamRepository handles youtube_data table operations
type LivestreamRepository struct {
	db *Database
}

// UpdateLeague sets the video id and live status of a league's row and
// commits. It returns the number of rows affected; an unknown league
// affects none and is not an error.
func (r *LivestreamRepository) UpdateLeague(ctx context.Context, league string, info models.VideoInfo) (int64, error) {
	league = strings.ToLower(league)
	start := time.Now()

	query, args, err := r.db.builder().
		Update(livestreamTable).
		Set("videoID", info.VideoID).
		Set("isLive", info.LiveStatus).
		Where(sq.Eq{"league": league}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build update: %w", err)
	}

	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		metrics.RecordDBQuery("update", livestreamTable, "error", time.Since(start).Seconds())
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		tx.Rollback()
		metrics.RecordDBQuery("update", livestreamTable, "error", time.Since(start).Seconds())
		return 0, fmt.Errorf("failed to update league %s: %w", league, err)
	}

	if err := tx.Commit(); err != nil {
		metrics.RecordDBQuery("update", livestreamTable, "error", time.Since(start).Seconds())
		return 0, fmt.Errorf("failed to commit league %s: %w", league, err)
	}
	metrics.RecordDBQuery("update", livestreamTable, "success", time.Since(start).Seconds())

	affected, err := res.RowsAffected()
	if err != nil {
		affected = 0
	}

	r.db.logger.Debug().
		Str("league", league).
		Str("video_id", info.VideoID).
		Str("is_live", info.LiveStatus).
		Int64("rows_affected", affected).
		Msg("League updated")

	return affected, nil
}

// SelectAll returns every row of the table
func (r *LivestreamRepository) SelectAll(ctx context.Context) ([]*models.Livestream, error) {
	r.db.logger.Debug().Msg("select_all executing")

	return r.list(ctx, r.db.builder().
		Select("id", "league", "videoID", "isLive").
		From(livestreamTable).
		OrderBy("id"))
}

// GetByLeague returns the row of a single league
func (r *LivestreamRepository) GetByLeague(ctx context.Context, league string) (*models.Livestream, error) {
	rows, err := r.list(ctx, r.db.builder().
		Select("id", "league", "videoID", "isLive").
		From(livestreamTable).
		Where(sq.Eq{"league": strings.ToLower(league)}).
		Limit(1))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: league %s", ErrNotFound, league)
	}
	return rows[0], nil
}

func (r *LivestreamRepository) list(ctx context.Context, q sq.SelectBuilder) ([]*models.Livestream, error) {
	start := time.Now()

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select: %w", err)
	}

	rows, err := r.db.DB.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordDBQuery("select", livestreamTable, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("failed to query livestreams: %w", err)
	}
	defer rows.Close()

	var livestreams []*models.Livestream
	for rows.Next() {
		var (
			ls      models.Livestream
			videoID sql.NullString
			isLive  sql.NullString
		)
		if err := rows.Scan(&ls.ID, &ls.League, &videoID, &isLive); err != nil {
			metrics.RecordDBQuery("select", livestreamTable, "error", time.Since(start).Seconds())
			return nil, fmt.Errorf("failed to scan livestream: %w", err)
		}
		ls.VideoID = videoID.String
		ls.IsLive = isLive.String
		livestreams = append(livestreams, &ls)
	}

	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery("select", livestreamTable, "error", time.Since(start).Seconds())
		return nil, fmt.Errorf("error iterating livestreams: %w", err)
	}
	metrics.RecordDBQuery("select", livestreamTable, "success", time.Since(start).Seconds())

	return livestreams, nil
}
