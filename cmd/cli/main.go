package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/fetchbar/internal/app"
	"github.com/yourusername/fetchbar/internal/domain"
	"github.com/yourusername/fetchbar/internal/infrastructure"
	"github.com/yourusername/fetchbar/pkg/logger"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "fetchbar",
		Short: "fetchbar - download a text resource with a progress bar",
		Long: `Downloads a text resource over HTTP, showing a progress bar while it
arrives and printing the first characters of the text when it is done.`,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default searches ./configs, $HOME/.fetchbar, /etc/fetchbar)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(statsCmd)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func loadConfig() *domain.Config {
	config, err := app.LoadConfig(cfgFile)
	if err != nil {
		fail(err)
	}
	return config
}

func newLogger(config *domain.Config) *zap.Logger {
	log, err := logger.New(logger.ForTerminal(config.Logging))
	if err != nil {
		return logger.NewDefault()
	}
	return log
}

// openHistory opens the history database for the read-only commands
func openHistory(config *domain.Config) *infrastructure.SQLiteTransferRepository {
	if !config.History.Enabled {
		fail(fmt.Errorf("history is disabled (history.enabled)"))
	}
	repo, err := app.OpenHistory(&config.History)
	if err != nil {
		fail(err)
	}
	return repo
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the configured resource and print a preview",
	Run: func(cmd *cobra.Command, args []string) {
		config := loadConfig()

		if url, _ := cmd.Flags().GetString("url"); url != "" {
			config.Transfer.URL = url
		}
		if strategy, _ := cmd.Flags().GetString("strategy"); strategy != "" {
			config.Transfer.Strategy = domain.Strategy(strategy)
		}
		if !domain.ValidateStrategy(config.Transfer.Strategy) {
			fail(fmt.Errorf("invalid strategy: %s", config.Transfer.Strategy))
		}

		if code := runFetch(config); code != 0 {
			os.Exit(code)
		}
	},
}

// runFetch performs one download and returns the process exit code
func runFetch(config *domain.Config) int {
	log := newLogger(config)
	defer log.Sync()

	manager, closeHistory, err := app.NewManager(config, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeHistory()

	// Ctrl-C cancels the download instead of killing the process
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	view := infrastructure.NewTerminalView(os.Stderr, os.Stdout, string(config.Transfer.Strategy))
	transfer, err := manager.Run(ctx, config.Transfer.Strategy, view)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if transfer.Status != domain.StatusCompleted {
		return 1
	}
	return 0
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded transfers",
	Run: func(cmd *cobra.Command, args []string) {
		repo := openHistory(loadConfig())
		defer repo.Close()

		filters := make(map[string]interface{})
		if status, _ := cmd.Flags().GetString("status"); status != "" {
			filters["status"] = status
		}
		if strategy, _ := cmd.Flags().GetString("strategy"); strategy != "" {
			filters["strategy"] = strategy
		}

		transfers, err := repo.FindAll(filters)
		if err != nil {
			fail(err)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTRATEGY\tSTATUS\tOUTCOME\tBYTES\tCREATED")
		for _, t := range transfers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				truncate(t.ID, 8),
				t.Strategy,
				t.Status,
				t.Outcome,
				formatBytes(t.BytesReceived, t.BytesTotal),
				t.CreatedAt.Format(time.DateTime))
		}
		w.Flush()
	},
}

var getCmd = &cobra.Command{
	Use:   "get [id]",
	Short: "Show a recorded transfer",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repo := openHistory(loadConfig())
		defer repo.Close()

		t, err := repo.FindByID(args[0])
		if err != nil {
			fail(err)
		}

		fmt.Printf("Transfer Details:\n")
		fmt.Printf("  ID:       %s\n", t.ID)
		fmt.Printf("  URL:      %s\n", t.URL)
		fmt.Printf("  Strategy: %s\n", t.Strategy)
		fmt.Printf("  Status:   %s\n", t.Status)
		fmt.Printf("  Outcome:  %s\n", t.Outcome)
		if t.StatusCode != 0 {
			fmt.Printf("  HTTP:     %d\n", t.StatusCode)
		}
		fmt.Printf("  Bytes:    %s\n", formatBytes(t.BytesReceived, t.BytesTotal))
		fmt.Printf("  Created:  %s\n", t.CreatedAt.Format(time.DateTime))
		if t.Message != "" {
			fmt.Printf("  Message:  %s\n", t.Message)
		}
		if t.Preview != "" {
			fmt.Printf("\n%s\n", t.Preview)
		}
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show transfer statistics",
	Run: func(cmd *cobra.Command, args []string) {
		repo := openHistory(loadConfig())
		defer repo.Close()

		stats, err := repo.GetStats()
		if err != nil {
			fail(err)
		}

		fmt.Println("Transfer Statistics:")
		fmt.Printf("  Total:      %d\n", stats.Total)
		fmt.Printf("  Processing: %d\n", stats.Processing)
		fmt.Printf("  Completed:  %d\n", stats.Completed)
		fmt.Printf("  Failed:     %d\n", stats.Failed)
		fmt.Printf("  Cancelled:  %d\n", stats.Cancelled)
	},
}

func init() {
	fetchCmd.Flags().StringP("strategy", "s", "", "Download strategy (callback, stream)")
	fetchCmd.Flags().StringP("url", "u", "", "Resource URL (overrides transfer.url)")
	historyCmd.Flags().StringP("status", "s", "", "Filter by status")
	historyCmd.Flags().String("strategy", "", "Filter by strategy")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func formatBytes(received, total int64) string {
	if total < 0 {
		return fmt.Sprintf("%d/?", received)
	}
	return fmt.Sprintf("%d/%d", received, total)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
