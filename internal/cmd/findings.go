package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var postCmd = &cobra.Command{
	Use:   "post <body>",
	Short: "Post a finding to the shared feed",
	Long: `Post a discovery to the append-only findings feed, visible to
every agent. Use tags to make findings filterable, for example
--tags bug,auth.`,
	Args: cobra.ExactArgs(1),
	RunE: runPost,
}

var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "Read the shared findings feed",
	Long: `Read the findings feed, oldest first. --since N starts at feed
position N. --new shows only findings posted since this agent last
read the feed, and remembers the new position.`,
	Args: cobra.NoArgs,
	RunE: runFindings,
}

var (
	postTags      []string
	findingsSince int
	findingsNew   bool
)

func init() {
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(findingsCmd)

	postCmd.Flags().StringSliceVar(&postTags, "tags", nil, "Comma-separated tags")
	findingsCmd.Flags().IntVar(&findingsSince, "since", -1, "Start at this feed position")
	findingsCmd.Flags().BoolVar(&findingsNew, "new", false, "Only findings since this agent's last read")
}

func runPost(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	finding, err := store.PostFinding(agent, args[0], postTags)
	if err != nil {
		return fmt.Errorf("failed to post: %w", err)
	}
	fmt.Printf("Posted finding %s\n", util.ShortID(finding.ID))
	return nil
}

func runFindings(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}

	var findings []board.Finding
	switch {
	case findingsNew:
		agent, err := currentAgent(cfg)
		if err != nil {
			return err
		}
		rec, registered, err := store.Agent(agent)
		if err != nil {
			return fmt.Errorf("failed to load agent: %w", err)
		}
		cursor := 0
		if registered {
			cursor = rec.FindingsCursor
		}
		items, next, err := store.FindingsSince(cursor)
		if err != nil {
			return fmt.Errorf("failed to read findings: %w", err)
		}
		findings = items
		if registered {
			if _, err := store.AdvanceFindingsCursor(agent, next); err != nil {
				return fmt.Errorf("failed to advance cursor: %w", err)
			}
		}
	case findingsSince >= 0:
		items, _, err := store.FindingsSince(findingsSince)
		if err != nil {
			return fmt.Errorf("failed to read findings: %w", err)
		}
		findings = items
	default:
		items, err := store.Findings()
		if err != nil {
			return fmt.Errorf("failed to read findings: %w", err)
		}
		findings = items
	}

	if len(findings) == 0 {
		fmt.Println("No findings.")
		return nil
	}
	for _, f := range findings {
		printFinding(&f)
	}
	return nil
}

func printFinding(f *board.Finding) {
	stamp := colorize(colorGray, f.CreatedAt.Local().Format(time.RFC822))
	fmt.Printf("%s  %s\n", stamp, colorize(colorCyan, f.Agent))
	fmt.Printf("  %s\n", f.Body)
	if len(f.Tags) > 0 {
		fmt.Printf("  %s\n", colorize(colorGray, "["+strings.Join(f.Tags, ", ")+"]"))
	}
}
