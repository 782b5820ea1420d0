package cmd

import (
	"fmt"
	"time"

	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var ownerCmd = &cobra.Command{
	Use:   "owner <resource>",
	Short: "Show who currently holds a resource",
	Args:  cobra.ExactArgs(1),
	RunE:  runOwner,
}

func init() {
	rootCmd.AddCommand(ownerCmd)
}

func runOwner(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}

	mgr := newManager(store, cfg)
	chain, err := mgr.ClaimForResource(args[0])
	if err != nil {
		return fmt.Errorf("failed to look up resource: %w", err)
	}
	if chain == nil {
		fmt.Printf("%s is unclaimed\n", args[0])
		return nil
	}

	fmt.Printf("%s is held by %s\n", args[0], colorize(colorYellow, chain.Owner))
	fmt.Printf("  Chain:     %s\n", util.ShortID(chain.ID))
	if chain.Reason != "" {
		fmt.Printf("  Reason:    %s\n", chain.Reason)
	}
	fmt.Printf("  Claimed:   %s\n", chain.ClaimedAt.Local().Format(time.RFC822))
	fmt.Printf("  Remaining: %s\n", formatRemaining(chain, time.Now()))
	return nil
}
