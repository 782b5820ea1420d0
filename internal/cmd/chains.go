package cmd

import (
	"fmt"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "List claim chains on the board",
	Long: `List claim chains. By default only active chains are shown.
Use --owner to see one agent's history including released, completed,
and expired chains, or --all for the full board.`,
	Args: cobra.NoArgs,
	RunE: runChains,
}

var (
	chainsOwner string
	chainsAll   bool
)

func init() {
	rootCmd.AddCommand(chainsCmd)
	chainsCmd.Flags().StringVar(&chainsOwner, "owner", "", "Show chains owned by this agent, including finished ones")
	chainsCmd.Flags().BoolVar(&chainsAll, "all", false, "Show every chain regardless of owner and status")
}

func runChains(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	mgr := newManager(store, cfg)

	var chains []board.ClaimChain
	switch {
	case chainsAll:
		chains, err = mgr.AllChains()
	case chainsOwner != "":
		chains, err = mgr.AgentChains(chainsOwner)
	default:
		chains, err = mgr.ActiveChains()
	}
	if err != nil {
		return fmt.Errorf("failed to list chains: %w", err)
	}

	if len(chains) == 0 {
		fmt.Println("No chains.")
		return nil
	}

	fmt.Printf("%d chain(s):\n\n", len(chains))
	now := time.Now()
	for i := range chains {
		printChain(&chains[i], now)
	}
	return nil
}

func printChain(c *board.ClaimChain, now time.Time) {
	status := colorize(statusColor(c.Status), string(c.Status))
	fmt.Printf("  %s  %s  %s\n", util.ShortID(c.ID), status, c.Owner)
	for _, r := range c.Resources {
		fmt.Printf("    %s\n", r)
	}
	if c.Reason != "" {
		fmt.Printf("    Reason:    %s\n", c.Reason)
	}
	fmt.Printf("    Claimed:   %s\n", c.ClaimedAt.Local().Format(time.RFC822))
	if c.Status == board.ChainActive {
		fmt.Printf("    Remaining: %s\n", formatRemaining(c, now))
	}
	fmt.Println()
}
