package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/claims"
	"github.com/Iron-Ham/accordo/internal/tui"
	"github.com/Iron-Ham/accordo/internal/watch"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of the board",
	Long: `Open a full-screen dashboard that refreshes whenever any agent
changes the board: active chains, the agent roster, open questions,
and the findings feed. With --plain, print a log line per change
instead, for terminals without alt-screen support.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

var watchPlain bool

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchPlain, "plain", false, "Line-mode change log instead of the full-screen dashboard")
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	mgr := newManager(store, cfg)

	watcher, err := watch.New(store.Dir(),
		watch.WithDebounce(cfg.Watch.Debounce()),
		watch.WithLogger(newLogger(cfg, store.Dir())))
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", store.Dir(), err)
	}

	if watchPlain {
		return watchPlainLoop(store, mgr, watcher)
	}
	return tui.New(store, mgr, watcher).Run()
}

// watchPlainLoop prints one summary line per board change until
// interrupted.
func watchPlainLoop(store *board.Store, mgr *claims.Manager, watcher *watch.Watcher) error {
	printLine := func() {
		agents, err := store.Agents()
		if err != nil {
			fmt.Printf("%s error: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		chains, err := mgr.ActiveChains()
		if err != nil {
			fmt.Printf("%s error: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		findings, err := store.Findings()
		if err != nil {
			fmt.Printf("%s error: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		questions, err := store.OpenQuestions("")
		if err != nil {
			fmt.Printf("%s error: %v\n", time.Now().Format("15:04:05"), err)
			return
		}
		fmt.Printf("%s  %d agent(s), %d active chain(s), %d finding(s), %d open question(s)\n",
			colorize(colorGray, time.Now().Format("15:04:05")),
			len(agents), len(chains), len(findings), len(questions))
	}

	watcher.SetOnChange(printLine)
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer watcher.Stop()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", store.Dir())
	printLine()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	fmt.Println()
	return nil
}
