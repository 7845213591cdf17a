// Package updater fetches the newest video of every league and writes the
// results to the youtube_data table.
package updater

import (
	"context"
	"fmt"
	"io"
	"time"

	"simhockey/youtube-updater/internal/metrics"
	"simhockey/youtube-updater/internal/models"

	"github.com/rs/zerolog"
)

// VideoFetcher looks up the newest video of a league's channel
type VideoFetcher interface {
	GetVideoInfo(ctx context.Context, league string) (*models.VideoInfo, error)
}

// LeagueStore persists a league's video
type LeagueStore interface {
	UpdateLeague(ctx context.Context, league string, info models.VideoInfo) (int64, error)
}

// Result is the video fetched for one league
type Result struct {
	League models.League
	Video  models.VideoInfo
}

// Updater runs the fetch phase followed by the write phase
type Updater struct {
	fetcher VideoFetcher
	store   LeagueStore
	logger  zerolog.Logger
	out     io.Writer
	leagues []models.League
}

// New creates an Updater for all tracked leagues. Progress lines go to out.
func New(fetcher VideoFetcher, store LeagueStore, logger zerolog.Logger, out io.Writer) *Updater {
	return &Updater{
		fetcher: fetcher,
		store:   store,
		logger:  logger.With().Str("component", "updater").Logger(),
		out:     out,
		leagues: models.Leagues,
	}
}

// FetchAll fetches every league in order. Any failure aborts the run before
// anything is written.
func (u *Updater) FetchAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, 0, len(u.leagues))

	for _, league := range u.leagues {
		info, err := u.fetcher.GetVideoInfo(ctx, league.String())
		if err != nil {
			return nil, fmt.Errorf("failed to fetch video for league %s: %w", league, err)
		}

		u.logger.Info().
			Str("league", league.String()).
			Str("video_id", info.VideoID).
			Str("live_status", info.LiveStatus).
			Msg("Fetched latest video")

		results = append(results, Result{League: league, Video: *info})
	}

	return results, nil
}

// WriteAll updates each league's row in order. A row that does not exist is
// skipped silently by the database and still reported.
func (u *Updater) WriteAll(ctx context.Context, results []Result) error {
	for _, r := range results {
		affected, err := u.store.UpdateLeague(ctx, r.League.String(), r.Video)
		if err != nil {
			return fmt.Errorf("failed to update league %s: %w", r.League, err)
		}

		metrics.RecordLeagueUpdated(r.League.String())
		if affected == 0 {
			u.logger.Warn().Str("league", r.League.String()).Msg("No row matched league")
		}

		fmt.Fprintf(u.out, "league [%s] updated to video id [%s] if it exists.\n", r.League, r.Video.VideoID)
	}

	return nil
}

// Run performs one complete update
func (u *Updater) Run(ctx context.Context) error {
	start := time.Now()

	results, err := u.FetchAll(ctx)
	if err == nil {
		err = u.WriteAll(ctx, results)
	}
	if err != nil {
		metrics.RecordRun("failure", time.Since(start).Seconds())
		u.logger.Error().Err(err).Msg("Update failed")
		return err
	}

	metrics.RecordRun("success", time.Since(start).Seconds())
	u.logger.Info().
		Int("leagues", len(results)).
		Dur("duration", time.Since(start)).
		Msg("Update complete")
	fmt.Fprintln(u.out, "Update complete")

	return nil
}
