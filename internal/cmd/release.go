package cmd

import (
	"fmt"
	"strings"

	"github.com/Iron-Ham/accordo/internal/claims"
	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var releaseCmd = &cobra.Command{
	Use:   "release <chain-id>",
	Short: "Release a claim chain you own without finishing the work",
	Long: `Release a claim chain, freeing its resources for other agents.
Only the owner can release a chain. Accepts the full chain id or a
unique prefix of one of your active chains.`,
	Args: cobra.ExactArgs(1),
	RunE: runRelease,
}

func init() {
	rootCmd.AddCommand(releaseCmd)
}

func runRelease(cmd *cobra.Command, args []string) error {
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

	ok, err := mgr.Release(agent, chainID)
	if err != nil {
		return fmt.Errorf("failed to release: %w", err)
	}
	if !ok {
		return fmt.Errorf("chain %s is not an active chain owned by %s", util.ShortID(chainID), agent)
	}
	fmt.Printf("Released chain %s\n", util.ShortID(chainID))
	return nil
}

// resolveChainID expands a chain id prefix against the agent's own
// active chains. A full id passes through untouched.
func resolveChainID(mgr *claims.Manager, owner, arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("chain id is required")
	}
	chains, err := mgr.AgentChains(owner)
	if err != nil {
		return "", fmt.Errorf("failed to list chains: %w", err)
	}

	var matches []string
	for _, c := range chains {
		if c.ID == arg {
			return arg, nil
		}
		if strings.HasPrefix(c.ID, arg) {
			matches = append(matches, c.ID)
		}
	}
	switch len(matches) {
	case 0:
		// Unknown here; let the manager report the authoritative answer.
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("chain id %q is ambiguous (%d matches)", arg, len(matches))
	}
}
