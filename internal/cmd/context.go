package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var contextCmd = &cobra.Command{
	Use:   "context",
	Short: "Read and write shared key-value context",
	Long: `Commands for the shared context map: small facts agents want
every other agent to see, like the base branch or a port assignment.`,
}

var contextSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a context value",
	Args:  cobra.ExactArgs(2),
	RunE:  runContextSet,
}

var contextGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a context value",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextGet,
}

var contextUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Remove a context key",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextUnset,
}

var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all context entries",
	Args:  cobra.NoArgs,
	RunE:  runContextList,
}

func init() {
	rootCmd.AddCommand(contextCmd)
	contextCmd.AddCommand(contextSetCmd)
	contextCmd.AddCommand(contextGetCmd)
	contextCmd.AddCommand(contextUnsetCmd)
	contextCmd.AddCommand(contextListCmd)
}

func runContextSet(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	if err := store.SetContext(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set context: %w", err)
	}
	fmt.Printf("%s = %s\n", args[0], args[1])
	return nil
}

func runContextGet(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	value, ok, err := store.GetContext(args[0])
	if err != nil {
		return fmt.Errorf("failed to get context: %w", err)
	}
	if !ok {
		return fmt.Errorf("no context key %q", args[0])
	}
	fmt.Println(value)
	return nil
}

func runContextUnset(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	ok, err := store.DeleteContext(args[0])
	if err != nil {
		return fmt.Errorf("failed to unset context: %w", err)
	}
	if !ok {
		return fmt.Errorf("no context key %q", args[0])
	}
	fmt.Printf("Removed %s\n", args[0])
	return nil
}

func runContextList(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	snapshot, err := store.ContextSnapshot()
	if err != nil {
		return fmt.Errorf("failed to list context: %w", err)
	}
	if len(snapshot) == 0 {
		fmt.Println("No context entries.")
		return nil
	}

	keys := make([]string, 0, len(snapshot))
	for k := range snapshot {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Printf("%s = %s\n", k, snapshot[k])
	}
	return nil
}
