package comparison

import (
	"math"
	"sort"
	"strings"

	"github.com/echoesai/echoes/internal/agent"
)

// TimeStats aggregates execution times in seconds.
type TimeStats struct {
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Stdev  float64 `json:"stdev"`
}

// TokenStats aggregates total token counts per query.
type TokenStats struct {
	Total  int `json:"total"`
	Mean   int `json:"mean"`
	Median int `json:"median"`
	Min    int `json:"min"`
	Max    int `json:"max"`
}

// CostStats aggregates estimated USD costs.
type CostStats struct {
	Total  float64 `json:"total"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// StepStats aggregates reasoning trace lengths.
type StepStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// ModelMetrics is the aggregate view of one model's run.
type ModelMetrics struct {
	NumQueries    int        `json:"num_queries"`
	ExecutionTime TimeStats  `json:"execution_time"`
	Tokens        TokenStats `json:"tokens"`
	Cost          CostStats  `json:"cost"`
	Steps         StepStats  `json:"steps"`
}

// ModelSummary pairs a model's metrics with its success rate.
type ModelSummary struct {
	Metrics     ModelMetrics `json:"metrics"`
	SuccessRate float64      `json:"success_rate"`
	NumQueries  int          `json:"num_queries"`
}

// Winners names the best model per dimension.
type Winners struct {
	Fastest        string `json:"fastest"`
	Cheapest       string `json:"cheapest"`
	MostSuccessful string `json:"most_successful"`
}

// Comparison is the final ranked result across all evaluated models.
type Comparison struct {
	Models map[string]ModelSummary `json:"models"`
	Best   Winners                 `json:"best"`
}

// CalculateMetrics aggregates one model's execution results.
func CalculateMetrics(results []agent.Result) ModelMetrics {
	if len(results) == 0 {
		return ModelMetrics{}
	}

	times := make([]float64, len(results))
	tokens := make([]float64, len(results))
	costs := make([]float64, len(results))
	steps := make([]float64, len(results))
	for i, r := range results {
		times[i] = r.Metrics.ExecutionTimeSeconds
		tokens[i] = float64(r.Metrics.EstimatedTokens.Total)
		costs[i] = r.Metrics.EstimatedCostUSD
		steps[i] = float64(r.Metrics.NumSteps)
	}

	return ModelMetrics{
		NumQueries: len(results),
		ExecutionTime: TimeStats{
			Total:  round(sum(times), 2),
			Mean:   round(mean(times), 2),
			Median: round(median(times), 2),
			Min:    round(min64(times), 2),
			Max:    round(max64(times), 2),
			Stdev:  round(stdev(times), 2),
		},
		Tokens: TokenStats{
			Total:  int(sum(tokens)),
			Mean:   int(mean(tokens)),
			Median: int(median(tokens)),
			Min:    int(min64(tokens)),
			Max:    int(max64(tokens)),
		},
		Cost: CostStats{
			Total:  round(sum(costs), 6),
			Mean:   round(mean(costs), 6),
			Median: round(median(costs), 6),
			Min:    round(min64(costs), 6),
			Max:    round(max64(costs), 6),
		},
		Steps: StepStats{
			Mean:   round(mean(steps), 1),
			Median: median(steps),
			Min:    int(min64(steps)),
			Max:    int(max64(steps)),
		},
	}
}

// SuccessRate is the percentage of queries that produced an answer
// without an error marker.
func SuccessRate(results []agent.Result) float64 {
	if len(results) == 0 {
		return 0
	}
	successful := 0
	for _, r := range results {
		if r.Answer != "" && !strings.Contains(strings.ToLower(r.Answer), "error") {
			successful++
		}
	}
	return round(float64(successful)/float64(len(results))*100, 1)
}

// Compare builds the cross-model summary and picks the winners. Ties
// go to the model that sorts first by name, so output is stable.
func Compare(modelResults map[string][]agent.Result) Comparison {
	cmp := Comparison{Models: make(map[string]ModelSummary, len(modelResults))}

	names := make([]string, 0, len(modelResults))
	for name := range modelResults {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		results := modelResults[name]
		cmp.Models[name] = ModelSummary{
			Metrics:     CalculateMetrics(results),
			SuccessRate: SuccessRate(results),
			NumQueries:  len(results),
		}
	}

	if len(names) == 0 {
		return cmp
	}

	best := Winners{Fastest: names[0], Cheapest: names[0], MostSuccessful: names[0]}
	for _, name := range names[1:] {
		s := cmp.Models[name]
		if s.Metrics.ExecutionTime.Mean < cmp.Models[best.Fastest].Metrics.ExecutionTime.Mean {
			best.Fastest = name
		}
		if s.Metrics.Cost.Total < cmp.Models[best.Cheapest].Metrics.Cost.Total {
			best.Cheapest = name
		}
		if s.SuccessRate > cmp.Models[best.MostSuccessful].SuccessRate {
			best.MostSuccessful = name
		}
	}
	cmp.Best = best
	return cmp
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}

func mean(xs []float64) float64 {
	return sum(xs) / float64(len(xs))
}

func median(xs []float64) float64 {
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func stdev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func min64(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x < m {
			m = x
		}
	}
	return m
}

func max64(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

func round(x float64, places int) float64 {
	pow := math.Pow10(places)
	return math.Round(x*pow) / pow
}
