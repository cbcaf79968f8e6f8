package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Song is one row of the catalog.
type Song struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Album           string `json:"album"`
	Year            int    `json:"year"`
	Lyrics          string `json:"lyrics,omitempty"`
	Mood            string `json:"mood"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	TrackNumber     int    `json:"track_number,omitempty"`
}

const songColumns = "id, title, album, year, lyrics, mood, duration_seconds, track_number"

// SongFilter narrows ListSongs. Zero values mean "no filter".
type SongFilter struct {
	Mood  string
	Album string
	Year  int
	Limit int
}

// ListSongs returns catalog rows matching the filter, in album/track order.
func (s *Store) ListSongs(ctx context.Context, f SongFilter) ([]Song, error) {
	var (
		conds []string
		args  []any
	)
	if f.Mood != "" {
		conds = append(conds, "mood LIKE ?")
		args = append(args, "%"+f.Mood+"%")
	}
	if f.Album != "" {
		conds = append(conds, "album LIKE ?")
		args = append(args, "%"+f.Album+"%")
	}
	if f.Year != 0 {
		conds = append(conds, "year = ?")
		args = append(args, f.Year)
	}

	q := "SELECT " + songColumns + " FROM songs"
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY year, album, track_number"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	return s.querySongs(ctx, q, args...)
}

// SongsByDecade returns songs released in [decade, decade+9].
func (s *Store) SongsByDecade(ctx context.Context, decade int) ([]Song, error) {
	q := "SELECT " + songColumns + " FROM songs WHERE year BETWEEN ? AND ? ORDER BY year, album, track_number"
	return s.querySongs(ctx, q, decade, decade+9)
}

// SearchSongs matches the query against title, album and lyrics.
func (s *Store) SearchSongs(ctx context.Context, query string) ([]Song, error) {
	pat := "%" + query + "%"
	q := "SELECT " + songColumns + ` FROM songs
		WHERE title LIKE ? OR album LIKE ? OR lyrics LIKE ?
		ORDER BY year, album, track_number`
	return s.querySongs(ctx, q, pat, pat, pat)
}

// SearchLyrics returns songs whose lyrics contain any of the given words.
func (s *Store) SearchLyrics(ctx context.Context, words []string) ([]Song, error) {
	if len(words) == 0 {
		return nil, nil
	}
	conds := make([]string, len(words))
	args := make([]any, len(words))
	for i, w := range words {
		conds[i] = "lyrics LIKE ?"
		args[i] = "%" + w + "%"
	}
	q := "SELECT " + songColumns + " FROM songs WHERE " + strings.Join(conds, " OR ") +
		" ORDER BY year, album, track_number"
	return s.querySongs(ctx, q, args...)
}

// SongByTitle returns the first song whose title matches (partial,
// case-insensitive via LIKE).
func (s *Store) SongByTitle(ctx context.Context, title string) (Song, error) {
	q := "SELECT " + songColumns + " FROM songs WHERE title LIKE ? LIMIT 1"
	songs, err := s.querySongs(ctx, q, "%"+title+"%")
	if err != nil {
		return Song{}, err
	}
	if len(songs) == 0 {
		return Song{}, ErrNotFound
	}
	return songs[0], nil
}

// MoodCounts returns the number of songs per mood.
func (s *Store) MoodCounts(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT mood, COUNT(*) FROM songs GROUP BY mood")
	if err != nil {
		return nil, fmt.Errorf("mood counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var mood string
		var n int
		if err := rows.Scan(&mood, &n); err != nil {
			return nil, fmt.Errorf("scan mood count: %w", err)
		}
		counts[mood] = n
	}
	return counts, rows.Err()
}

// CountSongs returns the total number of catalog rows.
func (s *Store) CountSongs(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM songs").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count songs: %w", err)
	}
	return n, nil
}

func (s *Store) querySongs(ctx context.Context, query string, args ...any) ([]Song, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query songs: %w", err)
	}
	defer rows.Close()

	var songs []Song
	for rows.Next() {
		var (
			song     Song
			lyrics   sql.NullString
			duration sql.NullInt64
			track    sql.NullInt64
		)
		if err := rows.Scan(&song.ID, &song.Title, &song.Album, &song.Year, &lyrics, &song.Mood, &duration, &track); err != nil {
			return nil, fmt.Errorf("scan song: %w", err)
		}
		song.Lyrics = lyrics.String
		song.DurationSeconds = int(duration.Int64)
		song.TrackNumber = int(track.Int64)
		songs = append(songs, song)
	}
	return songs, rows.Err()
}
