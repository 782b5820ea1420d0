package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/spf13/cobra"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List registered agents",
	Args:  cobra.NoArgs,
	RunE:  runAgents,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the current agent on the board",
	Long: `Register the current agent (from --agent, ACCORDO_AGENT_ID, or
user@host) so other agents can see it and message it. Re-registering
replaces the task and scope but keeps the findings read position.`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var touchCmd = &cobra.Command{
	Use:   "touch",
	Short: "Refresh the current agent's heartbeat",
	Long: `Update the current agent's last-seen time and optionally its
status. Agents that stop touching the board eventually show as stale
in the roster.`,
	Args: cobra.NoArgs,
	RunE: runTouch,
}

var (
	registerTask  string
	registerScope []string
	touchStatus   string
)

func init() {
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(touchCmd)

	registerCmd.Flags().StringVarP(&registerTask, "task", "t", "", "What the agent is working on")
	registerCmd.Flags().StringSliceVarP(&registerScope, "scope", "s", nil, "Areas the agent intends to touch")
	touchCmd.Flags().StringVarP(&touchStatus, "status", "s", "", "New status (working, idle, blocked, done)")
}

func runAgents(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}

	agents, err := store.Agents()
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}
	if len(agents) == 0 {
		fmt.Println("No agents registered.")
		return nil
	}

	staleAfter := cfg.Agent.StaleAfter()
	now := time.Now()

	fmt.Printf("%d agent(s):\n\n", len(agents))
	for _, a := range agents {
		status := colorize(agentStatusColor(a.Status), string(a.Status))
		if staleAfter > 0 && now.Sub(a.LastSeen) > staleAfter {
			status += colorize(colorGray, " (stale)")
		}
		fmt.Printf("  %s  %s\n", a.ID, status)
		if a.Task != "" {
			fmt.Printf("    Task:      %s\n", a.Task)
		}
		if len(a.Scope) > 0 {
			fmt.Printf("    Scope:     %s\n", strings.Join(a.Scope, ", "))
		}
		fmt.Printf("    Last seen: %s ago\n", now.Sub(a.LastSeen).Round(time.Second))
	}
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	rec, err := store.RegisterAgent(agent, registerTask, registerScope)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	fmt.Printf("Registered %s\n", rec.ID)
	if rec.Task != "" {
		fmt.Printf("  Task: %s\n", rec.Task)
	}
	return nil
}

func runTouch(cmd *cobra.Command, args []string) error {
	if touchStatus != "" && !validAgentStatus(touchStatus) {
		return fmt.Errorf("invalid status %q (valid: working, idle, blocked, done)", touchStatus)
	}

	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	ok, err := store.TouchAgent(agent, board.AgentStatus(touchStatus))
	if err != nil {
		return fmt.Errorf("failed to touch: %w", err)
	}
	if !ok {
		return fmt.Errorf("agent %s is not registered (run 'accordo register' first)", agent)
	}
	fmt.Printf("Touched %s\n", agent)
	return nil
}

func validAgentStatus(s string) bool {
	switch board.AgentStatus(s) {
	case board.AgentWorking, board.AgentIdle, board.AgentBlocked, board.AgentDone:
		return true
	}
	return false
}

func agentStatusColor(status board.AgentStatus) string {
	switch status {
	case board.AgentWorking:
		return colorGreen
	case board.AgentBlocked:
		return colorYellow
	case board.AgentIdle:
		return colorCyan
	case board.AgentDone:
		return colorGray
	default:
		return colorReset
	}
}
