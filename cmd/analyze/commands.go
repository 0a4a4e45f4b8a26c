package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/dysencn/gomoku-naive/internal/domain"
	"github.com/dysencn/gomoku-naive/internal/service/bot"
	"github.com/dysencn/gomoku-naive/internal/service/game"
	"github.com/dysencn/gomoku-naive/pkg/logging"
)

type options struct {
	boardFile    string
	player       string
	settingsFile string
	difficulty   string
	withLogs     bool
	verbose      bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:          "analyze",
		Short:        "Analyze gomoku positions offline",
		Long:         "Reads a board in text form ('.' empty, 'X' black, 'O' white) and prints JSON.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVarP(&opts.boardFile, "board", "b", "", "board file, '-' for stdin")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log search details to stderr")
	rootCmd.MarkPersistentFlagRequired("board")

	bestMoveCmd := &cobra.Command{
		Use:   "bestmove",
		Short: "Search the best move for a player",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBestMove(cmd, opts)
		},
	}
	bestMoveCmd.Flags().StringVarP(&opts.player, "player", "p", "black", "side to move: black|white")
	bestMoveCmd.Flags().StringVarP(&opts.settingsFile, "settings", "s", "", "YAML engine settings")
	bestMoveCmd.Flags().StringVarP(&opts.difficulty, "difficulty", "d", "medium", "easy|medium|hard")
	bestMoveCmd.Flags().BoolVar(&opts.withLogs, "logs", false, "include the search log")

	winnerCmd := &cobra.Command{
		Use:   "winner",
		Short: "Report whether the position is decided",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWinner(cmd, opts)
		},
	}

	shapesCmd := &cobra.Command{
		Use:   "shapes",
		Short: "Tally both players' shapes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShapes(cmd, opts)
		},
	}

	rootCmd.AddCommand(bestMoveCmd, winnerCmd, shapesCmd)
	return rootCmd
}

func (o *options) logger() *zap.SugaredLogger {
	if o.verbose {
		return logging.NewLogger("debug", "development")
	}
	return logging.Nop()
}

func readBoard(cmd *cobra.Command, path string) (*domain.Board, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read board: %w", err)
	}
	return domain.ParseBoard(string(data))
}

// loadSettings decodes a YAML settings file. Fields left out keep the
// difficulty preset.
func loadSettings(path string) (*bot.Settings, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}
	var s bot.Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return &s, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type bestMoveOutput struct {
	Move         *domain.Move   `json:"move"`
	Score        float64        `json:"score"`
	SearchNodes  int64          `json:"searchNodes"`
	PruningCount int64          `json:"pruningCount"`
	SearchTimeMs int64          `json:"searchTimeMs"`
	Settings     bot.Settings   `json:"settings"`
	Logs         []bot.LogEntry `json:"logs,omitempty"`
}

func runBestMove(cmd *cobra.Command, opts *options) error {
	board, err := readBoard(cmd, opts.boardFile)
	if err != nil {
		return err
	}
	player, err := domain.ParsePlayer(opts.player)
	if err != nil {
		return fmt.Errorf("--player %q: %w", opts.player, err)
	}
	override, err := loadSettings(opts.settingsFile)
	if err != nil {
		return err
	}

	svc := game.NewService(bot.DefaultSettings(), opts.logger())
	settings := svc.SettingsFor(bot.ParseDifficulty(opts.difficulty), override)
	result := svc.BestMove(board, player, settings)

	out := bestMoveOutput{Settings: settings}
	if result != nil {
		out.Move = result.Move
		out.Score = result.Score
		out.SearchNodes = result.SearchNodes
		out.PruningCount = result.PruningCount
		out.SearchTimeMs = result.SearchTime.Milliseconds()
		if opts.withLogs {
			out.Logs = result.Logs
		}
	}
	return printJSON(cmd, out)
}

func runWinner(cmd *cobra.Command, opts *options) error {
	board, err := readBoard(cmd, opts.boardFile)
	if err != nil {
		return err
	}
	outcome := game.NewService(bot.DefaultSettings(), opts.logger()).Winner(board)
	return printJSON(cmd, map[string]any{
		"outcome":  outcome.String(),
		"winner":   int(outcome.Winner()),
		"terminal": outcome.IsTerminal(),
	})
}

func runShapes(cmd *cobra.Command, opts *options) error {
	board, err := readBoard(cmd, opts.boardFile)
	if err != nil {
		return err
	}
	return printJSON(cmd, game.NewService(bot.DefaultSettings(), opts.logger()).Shapes(board))
}
