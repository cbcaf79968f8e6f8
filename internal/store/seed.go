package store

import (
	"context"
	"fmt"
)

// seedSongs is the curated catalog: 28 songs with mood classifications
// and short lyric fragments for keyword search.
var seedSongs = []Song{
	// The Dark Side of the Moon (1973)
	{Title: "Speak to Me", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "I've been mad for years", Mood: "psychedelic", DurationSeconds: 90, TrackNumber: 1},
	{Title: "Breathe", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "Breathe, breathe in the air", Mood: "melancholic", DurationSeconds: 163, TrackNumber: 2},
	{Title: "Time", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "Ticking away the moments that make up a dull day", Mood: "melancholic", DurationSeconds: 413, TrackNumber: 4},
	{Title: "The Great Gig in the Sky", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "And I am not frightened of dying", Mood: "progressive", DurationSeconds: 285, TrackNumber: 5},
	{Title: "Money", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "Money, get away", Mood: "energetic", DurationSeconds: 382, TrackNumber: 6},
	{Title: "Us and Them", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "Us and them, and after all we're only ordinary men", Mood: "melancholic", DurationSeconds: 467, TrackNumber: 7},
	{Title: "Brain Damage", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "The lunatic is on the grass", Mood: "psychedelic", DurationSeconds: 228, TrackNumber: 9},
	{Title: "Eclipse", Album: "The Dark Side of the Moon", Year: 1973, Lyrics: "All that you touch and all that you see", Mood: "progressive", DurationSeconds: 123, TrackNumber: 10},

	// The Wall (1979)
	{Title: "Another Brick in the Wall (Part 2)", Album: "The Wall", Year: 1979, Lyrics: "We don't need no education", Mood: "energetic", DurationSeconds: 238, TrackNumber: 3},
	{Title: "Mother", Album: "The Wall", Year: 1979, Lyrics: "Mother do you think they'll drop the bomb", Mood: "melancholic", DurationSeconds: 332, TrackNumber: 4},
	{Title: "Comfortably Numb", Album: "The Wall", Year: 1979, Lyrics: "Hello, is there anybody in there", Mood: "melancholic", DurationSeconds: 382, TrackNumber: 6},
	{Title: "Hey You", Album: "The Wall", Year: 1979, Lyrics: "Hey you, out there in the cold", Mood: "melancholic", DurationSeconds: 284, TrackNumber: 1},
	{Title: "Young Lust", Album: "The Wall", Year: 1979, Lyrics: "I am just a new boy", Mood: "energetic", DurationSeconds: 195, TrackNumber: 9},
	{Title: "Run Like Hell", Album: "The Wall", Year: 1979, Lyrics: "You better run like hell", Mood: "energetic", DurationSeconds: 258, TrackNumber: 3},
	{Title: "The Trial", Album: "The Wall", Year: 1979, Lyrics: "Good morning, Worm your honour", Mood: "dark", DurationSeconds: 313, TrackNumber: 5},

	// Wish You Were Here (1975)
	{Title: "Shine On You Crazy Diamond (Parts I-V)", Album: "Wish You Were Here", Year: 1975, Lyrics: "Remember when you were young, you shone like the sun", Mood: "progressive", DurationSeconds: 810, TrackNumber: 1},
	{Title: "Welcome to the Machine", Album: "Wish You Were Here", Year: 1975, Lyrics: "Welcome my son, welcome to the machine", Mood: "dark", DurationSeconds: 467, TrackNumber: 2},
	{Title: "Have a Cigar", Album: "Wish You Were Here", Year: 1975, Lyrics: "Come in here, dear boy, have a cigar", Mood: "energetic", DurationSeconds: 305, TrackNumber: 3},
	{Title: "Wish You Were Here", Album: "Wish You Were Here", Year: 1975, Lyrics: "So, so you think you can tell heaven from hell", Mood: "melancholic", DurationSeconds: 334, TrackNumber: 5},
	{Title: "Shine On You Crazy Diamond (Parts VI-IX)", Album: "Wish You Were Here", Year: 1975, Lyrics: "Nobody knows where you are, how near or how far", Mood: "progressive", DurationSeconds: 746, TrackNumber: 6},

	// Animals (1977)
	{Title: "Dogs", Album: "Animals", Year: 1977, Lyrics: "You gotta be crazy, you gotta have a real need", Mood: "progressive", DurationSeconds: 1025, TrackNumber: 2},
	{Title: "Pigs (Three Different Ones)", Album: "Animals", Year: 1977, Lyrics: "Big man, pig man, ha ha, charade you are", Mood: "dark", DurationSeconds: 671, TrackNumber: 3},
	{Title: "Sheep", Album: "Animals", Year: 1977, Lyrics: "Harmlessly passing your time in the grassland away", Mood: "energetic", DurationSeconds: 625, TrackNumber: 4},

	// Meddle (1971)
	{Title: "One of These Days", Album: "Meddle", Year: 1971, Lyrics: "One of these days I'm going to cut you into little pieces", Mood: "psychedelic", DurationSeconds: 349, TrackNumber: 1},
	{Title: "Echoes", Album: "Meddle", Year: 1971, Lyrics: "Overhead the albatross hangs motionless upon the air", Mood: "progressive", DurationSeconds: 1435, TrackNumber: 6},

	// Early years
	{Title: "Astronomy Domine", Album: "The Piper at the Gates of Dawn", Year: 1967, Lyrics: "Lime and limpid green, a second scene", Mood: "psychedelic", DurationSeconds: 252, TrackNumber: 1},
	{Title: "Interstellar Overdrive", Album: "The Piper at the Gates of Dawn", Year: 1967, Lyrics: "", Mood: "psychedelic", DurationSeconds: 585, TrackNumber: 7},
	{Title: "Set the Controls for the Heart of the Sun", Album: "A Saucerful of Secrets", Year: 1968, Lyrics: "Little by little the night turns around", Mood: "psychedelic", DurationSeconds: 327, TrackNumber: 3},
}

// Seed inserts the catalog if the songs table is empty. Returns the
// number of songs inserted (zero when already seeded).
func (s *Store) Seed(ctx context.Context) (int, error) {
	count, err := s.CountSongs(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO songs
		(title, album, year, lyrics, mood, duration_seconds, track_number)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare seed: %w", err)
	}
	defer stmt.Close()

	for _, song := range seedSongs {
		if _, err := stmt.ExecContext(ctx, song.Title, song.Album, song.Year, song.Lyrics, song.Mood, song.DurationSeconds, song.TrackNumber); err != nil {
			return 0, fmt.Errorf("insert %q: %w", song.Title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}
	return len(seedSongs), nil
}
