package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const timeLayout = time.RFC3339Nano

// runRepository archives harvest runs and their episodes
type runRepository struct {
	db *DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *DB) RunRepository {
	return &runRepository{db: db}
}

// CreateRun stores a run together with every harvested video ID and the episode rows
func (r *runRepository) CreateRun(run Run, videoIDs []string, episodes []EpisodeRecord) (int64, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (series, channel_id, playlist_id, config_fingerprint, started_at, finished_at,
		                  video_count, episode_count, unparsable_durations, failed_samples,
		                  duration_slope, duration_intercept, color_slope, color_intercept)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.Series, run.ChannelID, run.PlaylistID, run.ConfigFingerprint,
		run.StartedAt.UTC().Format(timeLayout), run.FinishedAt.UTC().Format(timeLayout),
		run.VideoCount, run.EpisodeCount, run.UnparsableDurations, run.FailedSamples,
		slopeOf(run.DurationFit), interceptOf(run.DurationFit),
		slopeOf(run.ColorFit), interceptOf(run.ColorFit))
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run id: %w", err)
	}

	for _, videoID := range videoIDs {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO run_videos (run_id, video_id) VALUES (?, ?)`, runID, videoID); err != nil {
			return 0, fmt.Errorf("failed to insert run video %s: %w", videoID, err)
		}
	}

	for i, ep := range episodes {
		_, err := tx.Exec(`
			INSERT INTO run_episodes (run_id, position, number, video_id, title, duration_code,
			                          thumbnail_url, duration_seconds, color_sample, sample_error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, i, ep.Number, ep.VideoID, ep.Title, ep.DurationCode,
			ep.ThumbnailURL, nullInt(ep.DurationSeconds), nullFloat(ep.ColorSample), ep.SampleError)
		if err != nil {
			return 0, fmt.Errorf("failed to insert episode %s: %w", ep.VideoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

// GetRun returns a run by ID, or nil if it does not exist
func (r *runRepository) GetRun(id int64) (*Run, error) {
	row := r.db.QueryRow(selectRun+` WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// GetLatestRun returns the most recent run of a series, or nil if the series was never archived
func (r *runRepository) GetLatestRun(series string) (*Run, error) {
	row := r.db.QueryRow(selectRun+` WHERE series = ? ORDER BY id DESC LIMIT 1`, series)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	return run, nil
}

// ListRuns returns runs newest first; an empty series matches all
func (r *runRepository) ListRuns(series string, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(selectRun+`
		WHERE (? = '' OR series = ?)
		ORDER BY id DESC
		LIMIT ?
	`, series, series, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run row: %w", err)
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

// GetRunEpisodes returns a run's episodes in their archived order
func (r *runRepository) GetRunEpisodes(runID int64) ([]EpisodeRecord, error) {
	rows, err := r.db.Query(`
		SELECT number, video_id, title, duration_code, thumbnail_url,
		       duration_seconds, color_sample, sample_error
		FROM run_episodes
		WHERE run_id = ?
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run episodes: %w", err)
	}
	defer rows.Close()

	episodes := []EpisodeRecord{}
	for rows.Next() {
		var ep EpisodeRecord
		var seconds sql.NullInt64
		var sample sql.NullFloat64

		err := rows.Scan(&ep.Number, &ep.VideoID, &ep.Title, &ep.DurationCode, &ep.ThumbnailURL,
			&seconds, &sample, &ep.SampleError)
		if err != nil {
			return nil, fmt.Errorf("failed to scan episode row: %w", err)
		}

		if seconds.Valid {
			v := int(seconds.Int64)
			ep.DurationSeconds = &v
		}
		if sample.Valid {
			v := sample.Float64
			ep.ColorSample = &v
		}
		episodes = append(episodes, ep)
	}

	return episodes, rows.Err()
}

// HasVideo reports whether a run saw the given upload
func (r *runRepository) HasVideo(runID int64, videoID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM run_videos WHERE run_id = ? AND video_id = ?)
	`, runID, videoID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check run video: %w", err)
	}

	return exists, nil
}

const selectRun = `
	SELECT id, series, channel_id, playlist_id, config_fingerprint, started_at, finished_at,
	       video_count, episode_count, unparsable_durations, failed_samples,
	       duration_slope, duration_intercept, color_slope, color_intercept
	FROM runs`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var startedAt, finishedAt string
	var durSlope, durIntercept, colSlope, colIntercept sql.NullFloat64

	err := row.Scan(&run.ID, &run.Series, &run.ChannelID, &run.PlaylistID, &run.ConfigFingerprint, &startedAt, &finishedAt,
		&run.VideoCount, &run.EpisodeCount, &run.UnparsableDurations, &run.FailedSamples,
		&durSlope, &durIntercept, &colSlope, &colIntercept)
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("invalid started_at %q: %w", startedAt, err)
	}
	if run.FinishedAt, err = time.Parse(timeLayout, finishedAt); err != nil {
		return nil, fmt.Errorf("invalid finished_at %q: %w", finishedAt, err)
	}

	run.DurationFit = fitOf(durSlope, durIntercept)
	run.ColorFit = fitOf(colSlope, colIntercept)

	return &run, nil
}

func fitOf(slope, intercept sql.NullFloat64) *FitRecord {
	if !slope.Valid || !intercept.Valid {
		return nil
	}
	return &FitRecord{Slope: slope.Float64, Intercept: intercept.Float64}
}

func slopeOf(fit *FitRecord) sql.NullFloat64 {
	if fit == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: fit.Slope, Valid: true}
}

func interceptOf(fit *FitRecord) sql.NullFloat64 {
	if fit == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: fit.Intercept, Valid: true}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
