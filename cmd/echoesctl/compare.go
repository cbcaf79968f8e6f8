package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/echoesai/echoes/internal/agent"
	"github.com/echoesai/echoes/internal/comparison"
	"github.com/echoesai/echoes/internal/config"
	"github.com/echoesai/echoes/internal/llm"
	"github.com/echoesai/echoes/internal/tools"
)

// compare runs the evaluation inline rather than through the worker,
// so it works without Redis.
func newCompareCmd() *cobra.Command {
	var (
		models    []string
		casesFile string
		category  string
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run the evaluation suite across models and rank them",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.HasOpenAI() {
				return fmt.Errorf("OPENAI_API_KEY is required for comparisons")
			}

			st, err := openStore(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer st.Close()
			if _, err := st.Seed(cmd.Context()); err != nil {
				return err
			}

			llmClient, err := llm.New(cfg.OpenAI.APIKey, llm.WithBaseURL(cfg.OpenAI.BaseURL))
			if err != nil {
				return err
			}
			registry := tools.NewRegistry()
			registry.Register(tools.NewSongsTool(st))
			registry.Register(tools.NewCurrencyTool())

			factory := func(model string) (comparison.Runner, error) {
				a, err := agent.New(llmClient, registry, model,
					agent.WithTemperature(cfg.Agent.Temperature),
					agent.WithMaxTokens(cfg.Agent.MaxTokens),
					agent.WithMaxIterations(cfg.Agent.MaxIterations),
				)
				if err != nil {
					return nil, err
				}
				return agent.NewExecutor(a), nil
			}

			opts := []comparison.EvaluatorOption{}
			if verbose {
				log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
				opts = append(opts, comparison.WithEvaluatorLogger(log))
			}
			if casesFile != "" || category != "" {
				cases := comparison.DefaultTestCases()
				if casesFile != "" {
					cases, err = comparison.LoadTestCases(casesFile)
					if err != nil {
						return err
					}
				}
				if category != "" {
					cases = comparison.FilterByCategory(cases, category)
					if len(cases) == 0 {
						return fmt.Errorf("no test cases in category %q", category)
					}
				}
				opts = append(opts, comparison.WithTestCases(cases))
			}

			evaluator, err := comparison.NewEvaluator(models, factory, opts...)
			if err != nil {
				return err
			}

			result, err := evaluator.Evaluate(cmd.Context())
			if err != nil {
				return err
			}

			printComparison(result)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&models, "models", []string{"gpt-4o-mini"}, "models to compare")
	cmd.Flags().StringVar(&casesFile, "cases", "", "YAML file with custom test cases")
	cmd.Flags().StringVar(&category, "category", "", "only run test cases in this category")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log per-case progress")
	return cmd
}

func printComparison(result comparison.Comparison) {
	names := make([]string, 0, len(result.Models))
	for name := range result.Models {
		names = append(names, name)
	}
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tQUERIES\tSUCCESS\tMEAN TIME\tTOTAL COST\tMEAN STEPS")
	for _, name := range names {
		s := result.Models[name]
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.2fs\t$%.6f\t%.1f\n",
			name, s.NumQueries, s.SuccessRate,
			s.Metrics.ExecutionTime.Mean, s.Metrics.Cost.Total, s.Metrics.Steps.Mean)
	}
	w.Flush()

	fmt.Printf("\nFastest: %s\nCheapest: %s\nMost successful: %s\n",
		result.Best.Fastest, result.Best.Cheapest, result.Best.MostSuccessful)
}
