// colorrun is a terminal arcade game: steer a ball through gates of its own
// color and pick up switchers to change color.
//
// Usage:
//
//	colorrun play            - Play in this terminal
//	colorrun scores          - Browse past runs
//	colorrun serve           - Host the game over SSH
//	colorrun web             - Host the game for browsers over WebSocket
//	colorrun config          - Print the effective game configuration
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible gameplay
//	--db <path>         - Set database path (default: ~/.colorrun/scores.db)
//	--config <path>     - Use a custom game configuration file
//	--log-level <level> - debug, info, warn or error (default: info)
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "colorrun",
	Short: "Color Runner - pass the gates that match your color",
	Long: `Color Runner is a one-button arcade game for the terminal.

Tap to keep the ball in the air. Gates scroll down toward it; pass through
gates of the ball's color and avoid the others. Diamonds change the ball's
color. Touching the floor or the ceiling ends the run.

Available commands:
  play     - Play in this terminal
  scores   - Browse past runs
  serve    - Start SSH server for remote play
  web      - Start WebSocket server for browsers
  config   - Print the effective configuration

Examples:
  colorrun play
  colorrun play --seed 42
  colorrun scores --plain
  colorrun serve --ssh :2222
  colorrun web --addr :8080`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.colorrun/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file (play defaults to ~/.colorrun/colorrun.log)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(configCmd)
}
