package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chat-helper/internal/chatclient"
	"chat-helper/internal/config"
	"chat-helper/internal/service"
)

type cliOptions struct {
	server  string
	store   string
	path    string
	verbose bool
}

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	var opts cliOptions

	cmd := &cobra.Command{
		Use:          "cli_chat",
		Short:        "Personal chat notebook with an attached assistant",
		Long:         `Log sent and received messages and ask the assistant about them. Answers stream from the relay started with cmd/api.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			applyFlags(cmd, cfg, opts)
			return runChat(cmd, cfg, opts.verbose, in, out)
		},
	}

	cmd.Flags().StringVar(&opts.server, "server", "", "Relay base URL (default $CHAT_SERVER_URL)")
	cmd.Flags().StringVar(&opts.store, "store", "", "Notebook store: bolt|sqlite|redis|postgres|memory (default $NOTEBOOK_STORE)")
	cmd.Flags().StringVar(&opts.path, "path", "", "Notebook file for bolt/sqlite (default $NOTEBOOK_PATH)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log to stderr")
	return cmd
}

// applyFlags deja que los flags explícitos ganen sobre el entorno.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts cliOptions) {
	if cmd.Flags().Changed("server") {
		cfg.ServerURL = opts.server
	}
	if cmd.Flags().Changed("store") {
		cfg.NotebookStore = opts.store
	}
	if cmd.Flags().Changed("path") {
		cfg.NotebookPath = opts.path
	}
}

func runChat(cmd *cobra.Command, cfg *config.Config, verbose bool, in io.Reader, out io.Writer) error {
	ctx := cmd.Context()

	logger := zap.NewNop()
	if verbose {
		dev, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = dev
	}
	defer logger.Sync()

	repo, closeStore, err := openNotebookStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open notebook store: %w", err)
	}
	defer closeStore()

	notebook := service.NewNotebookService(repo)
	if err := notebook.Load(ctx); err != nil {
		return err
	}

	transport := chatclient.NewHTTPTransport(cfg.ServerURL, nil)
	app := &chatApp{
		notebook: notebook,
		session:  chatclient.NewSession(transport, notebook, logger),
		reader:   bufio.NewReader(in),
		out:      out,
		logger:   logger,
	}
	logger.Info("cli chat started", zap.String("server", cfg.ServerURL), zap.String("store", cfg.NotebookStore))
	return app.run(ctx)
}
