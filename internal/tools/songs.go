package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/echoesai/echoes/internal/store"
)

// SongsToolName is the function-calling name of the catalog tool.
const SongsToolName = "pink_floyd_database"

var moods = []string{"melancholic", "energetic", "psychedelic", "progressive", "dark"}

var albumKeywords = []string{"dark side", "the wall", "wish you were here", "animals", "meddle", "piper", "saucerful", "ummagumma"}

// SongsTool answers catalog questions by translating a natural language
// query into store lookups.
type SongsTool struct {
	store *store.Store
}

// NewSongsTool creates the catalog tool over the given store.
func NewSongsTool(s *store.Store) *SongsTool {
	return &SongsTool{store: s}
}

func (t *SongsTool) Name() string { return SongsToolName }

func (t *SongsTool) Description() string {
	return `A database of Pink Floyd songs. Use this tool to search for songs by:
- Mood (melancholic, energetic, psychedelic, progressive, dark)
- Album name (e.g. 'The Dark Side of the Moon', 'The Wall', 'Wish You Were Here')
- Lyrics keywords (e.g. 'time', 'wall', 'shine', 'crazy')
- Year or decade (e.g. 1973, 1970s)

Input is a natural language query like "Find melancholic songs" or
"Songs from The Wall album". Output includes title, album, year, mood
and a lyrics snippet.`
}

// Run parses the query intent and executes the matching catalog lookup.
func (t *SongsTool) Run(ctx context.Context, query string) (string, error) {
	q := strings.ToLower(query)

	songs, err := t.dispatch(ctx, q)
	if err != nil {
		return "", fmt.Errorf("song catalog query: %w", err)
	}
	if len(songs) == 0 {
		return noResults(query), nil
	}
	return formatSongs(songs), nil
}

func (t *SongsTool) dispatch(ctx context.Context, q string) ([]store.Song, error) {
	for _, mood := range moods {
		if strings.Contains(q, mood) {
			return t.store.ListSongs(ctx, store.SongFilter{Mood: mood})
		}
	}

	for _, album := range albumKeywords {
		if strings.Contains(q, album) {
			return t.store.ListSongs(ctx, store.SongFilter{Album: album})
		}
	}

	switch {
	case strings.Contains(q, "1970") || strings.Contains(q, "70s") || strings.Contains(q, "seventies"):
		return t.store.SongsByDecade(ctx, 1970)
	case strings.Contains(q, "1960") || strings.Contains(q, "60s") || strings.Contains(q, "sixties"):
		return t.store.SongsByDecade(ctx, 1960)
	}

	for year := 1965; year <= 1984; year++ {
		if strings.Contains(q, strconv.Itoa(year)) {
			return t.store.ListSongs(ctx, store.SongFilter{Year: year})
		}
	}

	if strings.Contains(q, "lyrics") || strings.Contains(q, "words") || strings.Contains(q, "about") {
		if words := keywords(q); len(words) > 0 {
			return t.store.SearchLyrics(ctx, words)
		}
	}

	return t.store.SearchSongs(ctx, strings.TrimSpace(q))
}

var stopWords = map[string]bool{
	"find": true, "search": true, "show": true, "get": true, "songs": true,
	"song": true, "with": true, "lyrics": true, "about": true, "words": true,
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "me": true,
}

// keywords strips filler words so the remainder can drive a lyric search.
func keywords(q string) []string {
	var out []string
	for _, w := range strings.Fields(q) {
		w = strings.Trim(w, ".,!?\"'")
		if w != "" && !stopWords[w] {
			out = append(out, w)
		}
	}
	return out
}

func formatSongs(songs []store.Song) string {
	const maxSongs = 10
	if len(songs) > maxSongs {
		songs = songs[:maxSongs]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d song(s):\n\n", len(songs))
	for i, song := range songs {
		fmt.Fprintf(&b, "%d. '%s' from %s (%d)\n", i+1, song.Title, song.Album, song.Year)
		fmt.Fprintf(&b, "   Mood: %s\n", song.Mood)
		if song.Lyrics != "" {
			fmt.Fprintf(&b, "   Lyrics: %q\n", snippet(song.Lyrics, 120))
		}
		b.WriteByte('\n')
	}
	return strings.TrimSpace(b.String())
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func noResults(query string) string {
	return fmt.Sprintf(`No Pink Floyd songs match your query: '%s'

Try searching by:
- Mood: melancholic, energetic, psychedelic, progressive, dark
- Album: The Dark Side of the Moon, The Wall, Wish You Were Here, Animals
- Lyrics keywords
- Year or decade`, query)
}
