package infrastructure

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sglre6355/sgrtune/internal/modules/playback/application/ports"
	"github.com/sglre6355/sgrtune/internal/modules/playback/domain"
)

const playsSchema = `
	CREATE TABLE IF NOT EXISTS plays (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		track_id    TEXT NOT NULL,
		title       TEXT NOT NULL,
		artist      TEXT NOT NULL,
		album       TEXT,
		artwork_url TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		uri         TEXT,
		source_name TEXT,
		is_stream   INTEGER NOT NULL DEFAULT 0,
		played_at   DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plays_user_played_at ON plays (user_id, played_at DESC);
`

// SQLiteHistoryRecorder persists listening history in a SQLite database.
type SQLiteHistoryRecorder struct {
	db *sql.DB
}

// OpenSQLiteHistoryRecorder opens the database at path and applies the schema.
// The path can be ":memory:" for an in-memory database.
func OpenSQLiteHistoryRecorder(ctx context.Context, path string) (*SQLiteHistoryRecorder, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, playsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteHistoryRecorder{db: db}, nil
}

// RecordPlay implements ports.HistoryRecorder.
func (r *SQLiteHistoryRecorder) RecordPlay(
	ctx context.Context,
	userID string,
	track domain.Track,
	playedAt time.Time,
) error {
	query := `
		INSERT INTO plays (
			id, user_id, track_id, title, artist, album, artwork_url,
			duration_ms, uri, source_name, is_stream, played_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		uuid.NewString(),
		userID,
		string(track.ID),
		track.Title,
		track.Artist,
		nullable(track.Album),
		nullable(track.ArtworkURL),
		track.Duration.Milliseconds(),
		nullable(track.URI),
		nullable(track.SourceName),
		track.IsStream,
		playedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert play: %w", err)
	}

	return nil
}

// RecentPlays implements ports.HistoryRecorder.
func (r *SQLiteHistoryRecorder) RecentPlays(ctx context.Context, userID string, limit int) ([]ports.PlayRecord, error) {
	query := `
		SELECT
			id, user_id, track_id, title, artist, album, artwork_url,
			duration_ms, uri, source_name, is_stream, played_at
		FROM plays
		WHERE user_id = ?
		ORDER BY played_at DESC, rowid DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays: %w", err)
	}
	defer rows.Close()

	var records []ports.PlayRecord
	for rows.Next() {
		var (
			record                             ports.PlayRecord
			trackID                            string
			album, artworkURL, uri, sourceName sql.NullString
			durationMS                         int64
		)

		err := rows.Scan(
			&record.ID,
			&record.UserID,
			&trackID,
			&record.Track.Title,
			&record.Track.Artist,
			&album,
			&artworkURL,
			&durationMS,
			&uri,
			&sourceName,
			&record.Track.IsStream,
			&record.PlayedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}

		record.Track.ID = domain.TrackID(trackID)
		record.Track.Album = album.String
		record.Track.ArtworkURL = artworkURL.String
		record.Track.Duration = time.Duration(durationMS) * time.Millisecond
		record.Track.URI = uri.String
		record.Track.SourceName = sourceName.String

		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plays: %w", err)
	}

	return records, nil
}

// Close closes the database.
func (r *SQLiteHistoryRecorder) Close() error {
	return r.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

var _ ports.HistoryRecorder = (*SQLiteHistoryRecorder)(nil)
