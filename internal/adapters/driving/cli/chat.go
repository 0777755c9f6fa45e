package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/folio/internal/core/domain"
	"github.com/custodia-labs/folio/internal/logger"
)

var chatMessage string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the portfolio assistant",
	Long: `Starts an interactive conversation with the portfolio assistant. Each
question is answered from the portfolio context; use @slug to point at a
specific project or experience.

Type /reset to start over and /exit (or Ctrl-D) to quit.
Use --message to ask a single question and exit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "ask one question and exit")
	rootCmd.AddCommand(chatCmd)
}

// chatSession is one rolling conversation.
type chatSession struct {
	id    string
	turns []domain.ChatTurn
	out   io.Writer
	// labels are printed before each turn when attached to a terminal.
	labels bool
}

func runChat(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	session := &chatSession{
		id:     uuid.NewString(),
		out:    cmd.OutOrStdout(),
		labels: isTerminal(cmd.InOrStdin()),
	}
	logger.Debug("Chat session %s", session.id)

	if chatMessage != "" {
		return session.ask(cmd, chatMessage)
	}

	if session.labels {
		fmt.Fprintln(session.out, titleStyle.Render("Folio assistant"))
		fmt.Fprintln(session.out, mutedStyle.Render("Ask about projects and experiences. /reset starts over, /exit quits."))
		fmt.Fprintln(session.out)
	}

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		if session.labels {
			fmt.Fprint(session.out, userStyle.Render("you › "))
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			session.turns = nil
			fmt.Fprintln(session.out, mutedStyle.Render("Conversation cleared."))
			continue
		}

		if err := session.ask(cmd, line); err != nil {
			if errors.Is(err, domain.ErrLLMUnavailable) {
				return err
			}
			fmt.Fprintln(session.out, errorStyle.Render("Error: "+err.Error()))
		}
	}
	return scanner.Err()
}

// ask sends one user turn and streams the reply.
func (s *chatSession) ask(cmd *cobra.Command, question string) error {
	s.turns = append(s.turns, domain.ChatTurn{Role: domain.RoleUser, Content: question})

	if s.labels {
		fmt.Fprint(s.out, assistantStyle.Render("folio › "))
	}
	reply, err := chatService.Chat(cmd.Context(), s.turns, func(delta string) error {
		_, err := io.WriteString(s.out, delta)
		return err
	})
	fmt.Fprintln(s.out)
	if err != nil {
		s.turns = s.turns[:len(s.turns)-1]
		return err
	}

	s.turns = append(s.turns, domain.ChatTurn{Role: domain.RoleAssistant, Content: reply})
	return nil
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
