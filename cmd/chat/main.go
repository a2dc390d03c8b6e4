package main

import (
	"fmt"
	"io"
	"os"

	"github.com/akolanti/kbchat/internal/chatClient"
	"github.com/akolanti/kbchat/internal/config"
	"github.com/akolanti/kbchat/internal/tui"
	"github.com/akolanti/kbchat/pkg/logger_i"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type chatOptions struct {
	apiURL  string
	topK    int
	logFile string
}

func main() {
	_ = godotenv.Load()

	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &chatOptions{}

	cmd := &cobra.Command{
		Use:          "chat",
		Short:        "Terminal chat against the knowledge base API",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(opts)
		},
	}

	defaultURL := os.Getenv("API_URL")
	if defaultURL == "" {
		defaultURL = config.DefaultAPIURL
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.apiURL, "api-url", defaultURL, "chat endpoint, e.g. http://localhost:8000/v1/chat")
	flags.IntVar(&opts.topK, "top-k", 4, fmt.Sprintf("passages to retrieve (%d-%d)", config.MinTopK, config.UIMaxTopK))
	flags.StringVar(&opts.logFile, "log-file", "", "write logs here instead of discarding them")
	return cmd
}

func runChat(opts *chatOptions) error {
	// stdout belongs to the UI
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger_i.InitWithWriter(logOut, false)

	client := chatClient.New(opts.apiURL, config.FrontendRequestTimeout)
	model := tui.New(client, opts.apiURL, opts.topK)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("chat ui: %w", err)
	}
	return nil
}
