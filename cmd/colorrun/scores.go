package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/color-runner/internal/platform/tui"
	"github.com/vovakirdan/color-runner/internal/storage"
)

var (
	flagPlain  bool
	flagLimit  int
	flagRecent bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Browse past runs",
	Long: `Show the best and most recent runs with overall statistics.

Without --plain an interactive table opens; tab switches between the best
and the most recent runs.

Examples:
  colorrun scores
  colorrun scores --plain
  colorrun scores --plain --recent --limit 20`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagPlain, "plain", false, "Print scores instead of opening the table")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to print with --plain")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "Print the most recent runs instead of the best")
}

func runScores(_ *cobra.Command, _ []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("error opening scores database: %w", err)
	}
	defer store.Close()

	if !flagPlain {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		return tui.RunScoreboard(store, width, height)
	}

	return printScores(store)
}

func printScores(store *storage.Store) error {
	var (
		scores []storage.ScoreEntry
		err    error
		title  = "Best runs"
	)
	if flagRecent {
		title = "Recent runs"
		scores, err = store.RecentScores(storage.GameID, flagLimit)
	} else {
		scores, err = store.TopScores(storage.GameID, flagLimit)
	}
	if err != nil {
		return fmt.Errorf("error retrieving scores: %w", err)
	}

	fmt.Printf("Color Runner - %s\n", title)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'colorrun play' to set the first high score!")
		return nil
	}

	label := "Rank"
	if flagRecent {
		label = "Run"
	}
	fmt.Printf("  %-5s  %-10s  %s\n", label, "Score", "Date")
	fmt.Printf("  %-5s  %-10s  %s\n", "----", "-----", "----")

	for i, entry := range scores {
		n := int64(i + 1)
		if flagRecent {
			n = entry.ID
		}
		fmt.Printf("  %-5d  %-10d  %s\n", n, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	if stats, err := store.Stats(storage.GameID); err == nil {
		fmt.Printf("Runs: %d  Average: %.1f\n", stats.Runs, stats.AvgScore)
	}
	if high, err := store.HighScore(storage.GameID); err == nil {
		fmt.Printf("Best: %d\n", high)
	}
	return nil
}
