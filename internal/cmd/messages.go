package cmd

import (
	"fmt"
	"time"

	"github.com/Iron-Ham/accordo/internal/board"
	"github.com/Iron-Ham/accordo/internal/util"
	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <to> <body>",
	Short: "Send a message to another agent",
	Long: `Send a message to one agent, or to every agent with '*' as the
recipient. Kinds: info, warning, status, handoff.`,
	Args: cobra.ExactArgs(2),
	RunE: runSend,
}

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Show messages addressed to the current agent",
	Long: `Show direct and broadcast messages for the current agent,
oldest first. By default only unread messages appear; --all includes
ones already read, --mark-read marks the listed messages read.`,
	Args: cobra.NoArgs,
	RunE: runInbox,
}

var (
	sendKind      string
	inboxAll      bool
	inboxMarkRead bool
)

func init() {
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(inboxCmd)

	sendCmd.Flags().StringVarP(&sendKind, "kind", "k", "info", "Message kind (info, warning, status, handoff)")
	inboxCmd.Flags().BoolVar(&inboxAll, "all", false, "Include messages already read")
	inboxCmd.Flags().BoolVar(&inboxMarkRead, "mark-read", false, "Mark the listed messages as read")
}

func runSend(cmd *cobra.Command, args []string) error {
	if !validMessageKind(sendKind) {
		return fmt.Errorf("invalid kind %q (valid: info, warning, status, handoff)", sendKind)
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

	msg, err := store.SendMessage(agent, args[0], board.MessageKind(sendKind), args[1])
	if err != nil {
		return fmt.Errorf("failed to send: %w", err)
	}
	fmt.Printf("Sent %s message %s to %s\n", msg.Kind, util.ShortID(msg.ID), msg.To)
	return nil
}

func runInbox(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	store, err := requireStore(cfg)
	if err != nil {
		return err
	}
	agent, err := currentAgent(cfg)
	if err != nil {
		return err
	}

	var msgs []board.Message
	if inboxAll {
		msgs, err = store.MessagesFor(agent)
	} else {
		msgs, err = store.UnreadMessagesFor(agent)
	}
	if err != nil {
		return fmt.Errorf("failed to read inbox: %w", err)
	}

	if len(msgs) == 0 {
		fmt.Println("No messages.")
		return nil
	}

	marked := 0
	for _, m := range msgs {
		printMessage(&m, agent)
		if inboxMarkRead && !m.ReadByAgent(agent) {
			if _, err := store.MarkMessageRead(agent, m.ID); err != nil {
				return fmt.Errorf("failed to mark read: %w", err)
			}
			marked++
		}
	}
	if inboxMarkRead {
		fmt.Printf("\nMarked %d message(s) read.\n", marked)
	}
	return nil
}

func printMessage(m *board.Message, agent string) {
	stamp := colorize(colorGray, m.CreatedAt.Local().Format(time.RFC822))
	kind := colorize(messageKindColor(m.Kind), string(m.Kind))
	from := m.From
	if m.To == board.Broadcast {
		from += " (broadcast)"
	}
	read := ""
	if m.ReadByAgent(agent) {
		read = colorize(colorGray, "  (read)")
	}
	fmt.Printf("%s  %s  %s%s\n", stamp, kind, colorize(colorCyan, from), read)
	fmt.Printf("  %s\n", m.Body)
}

func validMessageKind(s string) bool {
	switch board.MessageKind(s) {
	case board.KindInfo, board.KindWarning, board.KindStatus, board.KindHandoff:
		return true
	}
	return false
}

func messageKindColor(kind board.MessageKind) string {
	switch kind {
	case board.KindWarning:
		return colorYellow
	case board.KindHandoff:
		return colorCyan
	default:
		return colorReset
	}
}
