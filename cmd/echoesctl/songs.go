package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/echoesai/echoes/internal/store"
)

func newSongsCmd() *cobra.Command {
	var (
		dbPath string
		title  string
		mood   string
		album  string
		year   int
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "songs",
		Short: "List songs from the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			var songs []store.Song
			if title != "" {
				song, err := st.SongByTitle(cmd.Context(), title)
				if err != nil {
					return err
				}
				songs = []store.Song{song}
			} else {
				songs, err = st.ListSongs(cmd.Context(), store.SongFilter{
					Mood:  mood,
					Album: album,
					Year:  year,
					Limit: limit,
				})
				if err != nil {
					return err
				}
			}
			if len(songs) == 0 {
				fmt.Println("No songs found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TITLE\tALBUM\tYEAR\tMOOD\tDURATION")
			for _, s := range songs {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%d:%02d\n",
					s.Title, s.Album, s.Year, s.Mood,
					s.DurationSeconds/60, s.DurationSeconds%60)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (defaults to $DATABASE_PATH)")
	cmd.Flags().StringVar(&title, "title", "", "look up a single song by title (partial match)")
	cmd.Flags().StringVar(&mood, "mood", "", "filter by mood")
	cmd.Flags().StringVar(&album, "album", "", "filter by album (partial match)")
	cmd.Flags().IntVar(&year, "year", 0, "filter by release year")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum rows")
	return cmd
}
