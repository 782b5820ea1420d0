package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/Iron-Ham/accordo/internal/claims"
	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var claimCmd = &cobra.Command{
	Use:   "claim <resource>...",
	Short: "Claim exclusive leases on one or more resources",
	Long: `Claim one or more resources (file paths, module names, any
identifier agents agree on) for the current agent. The claim is
all-or-nothing: if any resource is held by another agent, nothing is
claimed and the command exits with code 2 after listing the holders.

On success the command prints the chain id to pass to 'accordo release'
or 'accordo complete' when the work is done.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClaim,
}

var (
	claimReason string
	claimTTL    time.Duration
)

func init() {
	rootCmd.AddCommand(claimCmd)
	claimCmd.Flags().StringVarP(&claimReason, "reason", "r", "", "Why the resources are needed")
	claimCmd.Flags().DurationVarP(&claimTTL, "ttl", "t", 0, "Lease duration (default from config)")
}

func runClaim(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	mgr := newManager(store, cfg)
	chain, err := mgr.Claim(agent, args, claimReason, claimTTL)
	if err != nil {
		if blocked, ok := claims.IsBlocked(err); ok {
			printBlocked(blocked)
			os.Exit(exitCodeBlocked)
		}
		return fmt.Errorf("failed to claim: %w", err)
	}

	fmt.Printf("Claimed %d resource(s) as %s\n", len(chain.Resources), chain.Owner)
	fmt.Printf("  Chain:   %s\n", chain.ID)
	for _, r := range chain.Resources {
		fmt.Printf("    %s\n", r)
	}
	fmt.Printf("  Expires: %s (in %s)\n",
		chain.ExpiresAt.Local().Format(time.RFC822),
		formatRemaining(chain, time.Now()))
	return nil
}

// printBlocked lists every conflicting resource with its holder so the
// caller can decide whether to wait, message the holder, or move on.
func printBlocked(blocked *claims.BlockedError) {
	fmt.Printf("%s %d resource(s) held by other agents:\n\n",
		colorize(colorRed, "Claim blocked:"), len(blocked.Conflicting))

	now := time.Now()
	for _, c := range blocked.Blocking {
		fmt.Printf("  %s  %s\n", util.ShortID(c.ID), colorize(colorYellow, c.Owner))
		for _, r := range c.Resources {
			fmt.Printf("    %s\n", r)
		}
		if c.Reason != "" {
			fmt.Printf("    Reason:    %s\n", c.Reason)
		}
		fmt.Printf("    Remaining: %s\n", formatRemaining(&c, now))
	}
	fmt.Println("\nRetry after the lease expires, or message the holder with 'accordo send'.")
}
