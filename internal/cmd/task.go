package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work the shared task queue",
	Long: `Commands for the shared task queue. Any agent can add tasks;
'task next' hands the highest-priority pending task to the current
agent, oldest first within a priority.`,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Add a task to the queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Claim the next pending task",
	Args:  cobra.NoArgs,
	RunE:  runTaskNext,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <task-id>",
	Short: "Complete a task you claimed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskReleaseCmd = &cobra.Command{
	Use:   "release <task-id>",
	Short: "Put a claimed task back in the queue",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRelease,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Args:  cobra.NoArgs,
	RunE:  runTaskList,
}

var (
	taskPriority   int
	taskListStatus string
)

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskNextCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskReleaseCmd)
	taskCmd.AddCommand(taskListCmd)

	taskAddCmd.Flags().IntVarP(&taskPriority, "priority", "p", 0, "Higher numbers are claimed first")
	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "Filter by status (pending, in_progress, completed)")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	task, err := store.AddTask(args[0], agent, taskPriority)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	fmt.Printf("Added task %s (priority %d)\n", util.ShortID(task.ID), task.Priority)
	return nil
}

func runTaskNext(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	task, err := store.ClaimNextTask(agent)
	if err != nil {
		return fmt.Errorf("failed to claim task: %w", err)
	}
	if task == nil {
		fmt.Println("No pending tasks.")
		return nil
	}
	fmt.Printf("Claimed task %s\n", util.ShortID(task.ID))
	fmt.Printf("  %s\n", task.Description)
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	taskID, err := resolveTaskID(store, agent, args[0])
	if err != nil {
		return err
	}
	ok, err := store.CompleteTask(agent, taskID)
	if err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}
	if !ok {
		return fmt.Errorf("task %s is not in progress under %s", util.ShortID(taskID), agent)
	}
	fmt.Printf("Completed task %s\n", util.ShortID(taskID))
	return nil
}

func runTaskRelease(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	taskID, err := resolveTaskID(store, agent, args[0])
	if err != nil {
		return err
	}
	ok, err := store.ReleaseTask(agent, taskID)
	if err != nil {
		return fmt.Errorf("failed to release task: %w", err)
	}
	if !ok {
		return fmt.Errorf("task %s is not in progress under %s", util.ShortID(taskID), agent)
	}
	fmt.Printf("Released task %s back to the queue\n", util.ShortID(taskID))
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	if taskListStatus != "" && !validTaskStatus(taskListStatus) {
		return fmt.Errorf("invalid status %q (valid: pending, in_progress, completed)", taskListStatus)
	}

	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}

	tasks, err := store.Tasks(board.TaskStatus(taskListStatus))
	if err != nil {
		return fmt.Errorf("failed to list tasks: %w", err)
	}
	if len(tasks) == 0 {
		fmt.Println("No tasks.")
		return nil
	}

	fmt.Printf("%d task(s):\n\n", len(tasks))
	for _, task := range tasks {
		status := colorize(taskStatusColor(task.Status), string(task.Status))
		fmt.Printf("  %s  %s  p%d\n", util.ShortID(task.ID), status, task.Priority)
		fmt.Printf("    %s\n", task.Description)
		if task.ClaimedBy != "" {
			fmt.Printf("    Claimed by: %s\n", task.ClaimedBy)
		}
		fmt.Printf("    Created:    %s\n", task.CreatedAt.Local().Format(time.RFC822))
	}
	return nil
}

// resolveTaskID expands a task id prefix against the agent's
// in-progress tasks.
func resolveTaskID(store *board.Store, agent, arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("task id is required")
	}
	tasks, err := store.Tasks(board.TaskInProgress)
	if err != nil {
		return "", fmt.Errorf("failed to list tasks: %w", err)
	}

	var matches []string
	for _, task := range tasks {
		if task.ID == arg {
			return arg, nil
		}
		if task.ClaimedBy == agent && strings.HasPrefix(task.ID, arg) {
			matches = append(matches, task.ID)
		}
	}
	switch len(matches) {
	case 0:
		return arg, nil
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("task id %q is ambiguous (%d matches)", arg, len(matches))
	}
}

func validTaskStatus(s string) bool {
	switch board.TaskStatus(s) {
	case board.TaskPending, board.TaskInProgress, board.TaskCompleted:
		return true
	}
	return false
}

func taskStatusColor(status board.TaskStatus) string {
	switch status {
	case board.TaskPending:
		return colorYellow
	case board.TaskInProgress:
		return colorGreen
	case board.TaskCompleted:
		return colorGray
	default:
		return colorReset
	}
}
