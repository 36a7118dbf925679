package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/hsbacot/mercat/catalog"
	"github.com/hsbacot/mercat/client"
	"github.com/hsbacot/mercat/config"
	"github.com/hsbacot/mercat/ui"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configPath string
	envFile    string
	backend    string
	verbose    bool
}

// app is the composition root built once per command invocation
type app struct {
	cfg        *config.Config
	logger     *log.Logger
	client     *client.Client
	controller *catalog.Controller
}

// NewRootCmd builds the mercat command tree
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "mercat",
		Short:         "Browse, search and manage listings on a simple-mercari backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts, "")
		},
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath(), "config file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before the config")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "backend origin (overrides config and MERCAT_BACKEND_URL)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose mode - show detailed logs")

	root.AddCommand(
		newBrowseCmd(opts),
		newListCmd(opts),
		newSearchCmd(opts),
		newAddCmd(opts),
		newDeleteCmd(opts),
	)

	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp loads configuration and wires the client. Logs go to logOut.
func newApp(opts *globalOptions, logOut io.Writer) (*app, error) {
	if opts.envFile != "" {
		// a missing .env is normal outside development
		_ = godotenv.Load(opts.envFile)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.backend != "" {
		cfg.BackendURL = opts.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := ui.NewLogger(logOut, opts.verbose)
	logger.Debug("Using backend", "url", cfg.BackendURL, "timeout", cfg.Timeout)

	c := client.New(cfg.BackendURL,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		client.WithLogger(logger),
	)

	return &app{
		cfg:        cfg,
		logger:     logger,
		client:     c,
		controller: catalog.NewController(c, catalog.NewStore(), logger),
	}, nil
}
