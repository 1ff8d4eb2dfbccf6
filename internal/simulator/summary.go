package simulator

import (
	"fmt"
	"io"
)

// PrintSummary writes a plain-text breakdown of each strategy's results.
func PrintSummary(w io.Writer, r *Report) {
	fmt.Fprintf(w, "\n=== FINAL RESULTS ===\n")
	fmt.Fprintf(w, "Games: %d, hands: %d, elapsed: %s\n", r.Games, r.Hands, r.Elapsed)
	if r.Carry > 0 {
		fmt.Fprintf(w, "Odd chips left uncollected: %d\n", r.Carry)
	}

	for _, name := range r.Order {
		stats := r.Stats[name]
		fmt.Fprintf(w, "\n=== %s ===\n", name)
		if stats.Games == 0 {
			fmt.Fprintf(w, "No games\n")
			continue
		}

		low, high := stats.ConfidenceInterval95()
		fmt.Fprintf(w, "Mean: %.2f chips/game\n", stats.Mean())
		fmt.Fprintf(w, "Median: %.2f chips/game\n", stats.Median())
		fmt.Fprintf(w, "Std Dev: %.2f chips\n", stats.StdDev())
		fmt.Fprintf(w, "Std Error: %.2f chips\n", stats.StdError())
		fmt.Fprintf(w, "95%% CI: [%.2f, %.2f] chips/game\n", low, high)
		fmt.Fprintf(w, "Percentiles: P5=%.1f, P25=%.1f, P75=%.1f, P95=%.1f\n",
			stats.Percentile(0.05), stats.Percentile(0.25), stats.Percentile(0.75), stats.Percentile(0.95))

		if won := stats.HandsWon(); won > 0 {
			fmt.Fprintf(w, "Winning hands: %d showdown (%.1f%%), %d fold equity (%.1f%%)\n",
				stats.ShowdownWins, pct(stats.ShowdownWins, won),
				stats.NonShowdownWins, pct(stats.NonShowdownWins, won))
		}
		if stats.Showdowns > 0 {
			fmt.Fprintf(w, "Showdowns: %d of %d hands, won %.1f%%\n",
				stats.Showdowns, stats.Hands, pct(stats.ShowdownWins, stats.Showdowns))
		}
		fmt.Fprintf(w, "Busted: %d of %d games\n", stats.Busts, stats.Games)
	}
}

func pct(n, of int) float64 {
	return float64(n) / float64(of) * 100
}
