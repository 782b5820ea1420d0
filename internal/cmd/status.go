package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a one-screen summary of the board",
	Long: `Display the board at a glance: registered agents, active claim
chains, pending tasks, open questions, and the latest findings.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	mgr := newManager(store, cfg)
	now := time.Now()

	fmt.Println(strings.Repeat("─", 70))
	fmt.Printf("Board: %s\n", store.Dir())
	fmt.Println(strings.Repeat("─", 70))

	agents, err := store.Agents()
	if err != nil {
		return fmt.Errorf("failed to list agents: %w", err)
	}
	staleAfter := cfg.Agent.StaleAfter()
	fmt.Printf("\nAgents (%d):\n", len(agents))
	if len(agents) == 0 {
		fmt.Println("  none registered")
	}
	for _, a := range agents {
		status := colorize(agentStatusColor(a.Status), string(a.Status))
		if staleAfter > 0 && now.Sub(a.LastSeen) > staleAfter {
			status += colorize(colorGray, " (stale)")
		}
		line := fmt.Sprintf("  %s  %s", a.ID, status)
		if a.Task != "" {
			line += "  " + a.Task
		}
		fmt.Println(line)
	}

	chains, err := mgr.ActiveChains()
	if err != nil {
		return fmt.Errorf("failed to list chains: %w", err)
	}
	fmt.Printf("\nActive chains (%d):\n", len(chains))
	if len(chains) == 0 {
		fmt.Println("  none")
	}
	for i := range chains {
		c := &chains[i]
		fmt.Printf("  %s  %s  %s  (%s left)\n",
			util.ShortID(c.ID), c.Owner, strings.Join(c.Resources, ", "), formatRemaining(c, now))
	}

	pending, err := store.Tasks("")
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	var open, working int
	for _, task := range pending {
		switch {
		case task.Status.IsTerminal():
		case task.ClaimedBy != "":
			working++
		default:
			open++
		}
	}
	fmt.Printf("\nTasks: %d pending, %d in progress\n", open, working)

	questions, err := store.OpenQuestions("")
	if err != nil {
		return fmt.Errorf("failed to list questions: %w", err)
	}
	fmt.Printf("\nOpen questions (%d):\n", len(questions))
	if len(questions) == 0 {
		fmt.Println("  none")
	}
	for _, q := range questions {
		to := q.To
		if to == "" {
			to = "anyone"
		}
		fmt.Printf("  %s  %s -> %s: %s\n", util.ShortID(q.ID), q.From, to, q.Body)
	}

	findings, err := store.Findings()
	if err != nil {
		return fmt.Errorf("failed to list findings: %w", err)
	}
	const latest = 3
	fmt.Printf("\nFindings (%d total, latest %d):\n", len(findings), min(latest, len(findings)))
	if len(findings) == 0 {
		fmt.Println("  none")
	}
	start := len(findings) - latest
	if start < 0 {
		start = 0
	}
	for _, f := range findings[start:] {
		fmt.Printf("  %s  %s: %s\n",
			colorize(colorGray, f.CreatedAt.Local().Format("15:04")), f.Agent, f.Body)
	}

	return nil
}
