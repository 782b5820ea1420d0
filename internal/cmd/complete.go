package cmd

import (
	"fmt"

	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var completeCmd = &cobra.Command{
	Use:   "complete <chain-id>",
	Short: "Mark a claim chain finished and free its resources",
	Long: `Complete a claim chain you own. The resources become claimable
and the chain is recorded as completed rather than released, so other
agents can tell finished work from abandoned work. Accepts the full
chain id or a unique prefix of one of your active chains.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
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
	chainID, err := resolveChainID(mgr, agent, args[0])
	if err != nil {
		return err
	}

	ok, err := mgr.Complete(agent, chainID)
	if err != nil {
		return fmt.Errorf("failed to complete: %w", err)
	}
	if !ok {
		return fmt.Errorf("chain %s is not an active chain owned by %s", util.ShortID(chainID), agent)
	}
	fmt.Printf("Completed chain %s\n", util.ShortID(chainID))
	return nil
}
