package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/lox/holdemlab/poker"
	"github.com/lox/holdemlab/sdk/analysis"
	"github.com/lox/holdemlab/sdk/classification"
)

type CLI struct {
	Hole       string `arg:"" help:"Hole cards (e.g., 'AcKd')"`
	Board      string `short:"b" help:"Community cards, 3 to 5 (e.g., 'Td7s8h')" required:""`
	Opponents  int    `short:"o" help:"Number of opponents still in the hand" default:"1"`
	MonteCarlo int    `name:"monte-carlo" short:"m" help:"Also run N Monte Carlo run-outs (0 to skip)" default:"0"`
	Seed       *int64 `help:"Random seed for reproducible Monte Carlo results"`
	NoColor    bool   `help:"Disable colored output"`
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15"))

	handStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	winStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	killerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	categoryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("12"))
)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("poker-odds"),
		kong.Description("Estimate a hold'em hand's chance of winning from its outs"))

	if cli.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if err := run(context.Background(), cli, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		ctx.Exit(1)
	}
}

// query is a validated request.
type query struct {
	hole      []poker.Card
	board     []poker.Card
	opponents int
}

func parseQuery(cli CLI) (query, error) {
	hole, err := poker.ParseCards(cli.Hole)
	if err != nil {
		return query{}, fmt.Errorf("hole cards: %w", err)
	}
	if len(hole) != 2 {
		return query{}, fmt.Errorf("hole cards: need exactly 2, got %d", len(hole))
	}

	board, err := poker.ParseCards(cli.Board)
	if err != nil {
		return query{}, fmt.Errorf("board: %w", err)
	}
	if len(board) < 3 || len(board) > 5 {
		return query{}, fmt.Errorf("board: need 3 to 5 cards, got %d", len(board))
	}

	if cli.Opponents < 0 {
		return query{}, fmt.Errorf("opponents must not be negative, got %d", cli.Opponents)
	}
	if cli.MonteCarlo < 0 {
		return query{}, fmt.Errorf("monte-carlo must not be negative, got %d", cli.MonteCarlo)
	}
	return query{hole: hole, board: board, opponents: cli.Opponents}, nil
}

func run(ctx context.Context, cli CLI, w io.Writer) error {
	q, err := parseQuery(cli)
	if err != nil {
		return err
	}

	est, err := analysis.EstimateFromCards(q.hole, q.board, q.opponents)
	if err != nil {
		return err
	}

	starting := poker.NewStartingHand(q.hole[0], q.hole[1])
	fmt.Fprintf(w, "%s %s (%s, %s) on %s (%s)\n",
		headerStyle.Render("Hand:"),
		handStyle.Render(poker.FormatCards(q.hole)),
		starting, starting.Tier(),
		poker.FormatCards(q.board),
		classification.Texture(poker.NewHand(q.board...)))
	fmt.Fprintf(w, "%s %s\n", headerStyle.Render("Current:"), categoryStyle.Render(est.Outs.Current.Describe()))

	draws := classification.DetectDraws(poker.NewHand(q.hole...), poker.NewHand(q.board...))
	if len(draws.Draws) > 0 {
		names := make([]string, len(draws.Draws))
		for i, d := range draws.Draws {
			names[i] = d.String()
		}
		fmt.Fprintf(w, "%s %s (%d outs, %d to the nuts)\n",
			headerStyle.Render("Draws:"), strings.Join(names, ", "), draws.Outs, draws.NutOuts)
	}

	fmt.Fprintf(w, "%s %d unseen cards, %d opponents, %d cards to come\n",
		headerStyle.Render("Context:"), est.Context.Unseen, est.Context.Opponents, est.Context.PlayerSpots())

	printOuts(w, est.Outs)

	fmt.Fprintf(w, "\n%s %s\n", headerStyle.Render("Estimated win:"), winStyle.Render(fmt.Sprintf("%.1f%%", est.Win*100)))

	if cli.MonteCarlo == 0 {
		return nil
	}
	if q.opponents == 0 {
		fmt.Fprintf(w, "Monte Carlo skipped: no opponents\n")
		return nil
	}

	seed := time.Now().UnixNano()
	if cli.Seed != nil {
		seed = *cli.Seed
	}
	start := time.Now()
	eq, err := analysis.CalculateEquity(ctx, q.hole, q.board, q.opponents, cli.MonteCarlo, seed)
	if err != nil {
		return err
	}
	low, high := eq.ConfidenceInterval()
	fmt.Fprintf(w, "%s %s (win %.1f%%, tie %.1f%%, 95%% CI %.1f-%.1f%%) over %d run-outs in %v\n",
		headerStyle.Render("Monte Carlo equity:"),
		winStyle.Render(fmt.Sprintf("%.1f%%", eq.Equity()*100)),
		eq.WinRate()*100, eq.TieRate()*100, low*100, high*100,
		eq.TotalSimulations, time.Since(start).Round(time.Millisecond))
	return nil
}

func printOuts(w io.Writer, outs classification.Outs) {
	fmt.Fprintf(w, "\n%s %d\n", headerStyle.Render("Outs:"), outs.PlayerTotal())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range outs.Sides(classification.Player) {
		fmt.Fprintf(tw, "  %s\t%d\n", o.Category, o.Count)
	}
	tw.Flush()

	fmt.Fprintf(w, "%s %d\n", headerStyle.Render("Killers:"), outs.OpponentTotal())
	tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range outs.Sides(classification.Opponent) {
		fmt.Fprintf(tw, "  %s\t%s\n", o.Category, killerStyle.Render(fmt.Sprint(o.Count)))
	}
	tw.Flush()
}
