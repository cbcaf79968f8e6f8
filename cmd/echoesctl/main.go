package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoesai/echoes/internal/cache"
	"github.com/echoesai/echoes/internal/store"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "echoesctl",
		Short:   "Echoes — operate the Pink Floyd agent service from the command line",
		Version: version,
	}

	root.AddCommand(
		newSeedCmd(),
		newSongsCmd(),
		newHistoryCmd(),
		newCompareCmd(),
		newCacheKeyCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		path = os.Getenv("DATABASE_PATH")
	}
	if path == "" {
		path = "data/echoes.db"
	}
	return store.Open(path)
}

func newSeedCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the database and load the song catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			n, err := st.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("Catalog already seeded.")
				return nil
			}
			fmt.Printf("Seeded %d songs.\n", n)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (defaults to $DATABASE_PATH)")
	return cmd
}

func newCacheKeyCmd() *cobra.Command {
	var (
		model       string
		temperature float64
	)

	cmd := &cobra.Command{
		Use:   "cache-key <query>",
		Short: "Print the cache fingerprint for a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(cache.Fingerprint(args[0], model, temperature))
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "gpt-4o-mini", "model name")
	cmd.Flags().Float64Var(&temperature, "temperature", 0.1, "model temperature")
	return cmd
}
