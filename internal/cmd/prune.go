package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old finished claim chains",
	Long: `Delete released, completed, and expired chains that ended more
than --older-than ago. Terminal chains are otherwise kept forever so
agents can audit who worked where; prune when the history stops being
useful.`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

var pruneOlderThan time.Duration

func init() {
	rootCmd.AddCommand(pruneCmd)
	pruneCmd.Flags().DurationVar(&pruneOlderThan, "older-than", 0, "Age before a finished chain is deleted (default from config)")
}

func runPrune(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}

	olderThan := pruneOlderThan
	if olderThan <= 0 {
		olderThan = cfg.Claims.PruneAfter()
	}

	mgr := newManager(store, cfg)
	pruned, err := mgr.PruneTerminal(olderThan)
	if err != nil {
		return fmt.Errorf("failed to prune: %w", err)
	}
	fmt.Printf("Pruned %d chain(s) older than %s\n", pruned, olderThan)
	return nil
}
