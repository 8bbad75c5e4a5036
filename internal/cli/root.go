package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/kbukum/pipekit/config"
	"github.com/kbukum/pipekit/logger"
	"github.com/kbukum/pipekit/observability"
)

// NewRootCmd builds the procpipe command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *cliContext) {
	cc := &cliContext{}

	root := &cobra.Command{
		Use:   serviceName,
		Short: "Run child processes behind pipes",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cc.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&cc.configFile, "config", "", "Path to the configuration file")
	root.PersistentFlags().StringVar(&cc.envFile, "env-file", "", "Path to a .env file loaded before configuration")
	root.PersistentFlags().StringVar(&cc.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(newRunCmd())
	root.AddCommand(newExecCmd(cc))
	root.AddCommand(newFactoriesCmd(cc))
	root.AddCommand(newConfigCmd(cc))
	root.AddCommand(newVersionCmd())

	root.SilenceUsage = true
	root.SilenceErrors = true

	return root, cc
}

// Execute runs the CLI entrypoint and exits with the resulting status.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// Run executes the command line args against the given host streams and
// returns the exit status: the child's for run and exec, 1 for errors.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root, cc := newRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if shutdownErr := cc.teardown(context.Background()); shutdownErr != nil {
		logger.Warn("telemetry shutdown failed", logger.ErrorFields("shutdown", shutdownErr))
	}

	var exit *exitError
	switch {
	case stderrors.As(err, &exit):
		return exit.code
	case err != nil:
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return 1
	}
	return 0
}

// cliContext carries global flags and what setup derived from them.
type cliContext struct {
	configFile string
	envFile    string
	logLevel   string

	cfg      *Config
	shutdown observability.ShutdownFunc
}

func (c *cliContext) setup(cmd *cobra.Command) error {
	var opts []config.LoaderOption
	if c.configFile != "" {
		opts = append(opts, config.WithConfigFile(c.configFile))
	}
	if c.envFile != "" {
		opts = append(opts, config.WithEnvFile(c.envFile))
	}

	cfg := &Config{}
	if err := config.Load(serviceName, cfg, opts...); err != nil {
		return err
	}
	if c.logLevel != "" {
		cfg.Logging.Level = c.logLevel
	}
	cfg.ApplyDefaults()
	if !isTerminal(cmd.ErrOrStderr()) {
		cfg.Logging.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logOut := cmd.ErrOrStderr()
	if cfg.Logging.Output == "stdout" {
		logOut = cmd.OutOrStdout()
	}
	logger.SetGlobalLogger(logger.NewWithWriter(&cfg.Logging, "default", logOut))

	shutdown, err := observability.Setup(cmd.Context(), &cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}

	c.cfg = cfg
	c.shutdown = shutdown
	return nil
}

func (c *cliContext) teardown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}
	return c.shutdown(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
