package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the coordination directory and an empty board",
	Long: `Initialize a coordination board in the current project.
Creates the coordination directory (default .accordo) with an empty
board document. Safe to run twice: an existing board is left alone.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, dir, err := openStore(cfg)
	if err != nil {
		return err
	}
	if err := store.Init(); err != nil {
		return fmt.Errorf("failed to initialize board: %w", err)
	}
	fmt.Printf("Initialized board at %s\n", dir)
	return nil
}
