package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/carebridge/nutrimap/internal/cmd/output"
	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
)

// Run builds the application, executes args under a signal-aware context
// and releases resources. It returns the process exit code.
func Run(version, commit, date, builtBy string, args []string) int {
	a, err := New(version, commit, date, builtBy)
	if err != nil {
		printError(os.Stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = a.Execute(ctx, args)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if serr := a.Shutdown(shutdownCtx); serr != nil {
		a.Logger().Error().Err(serr).Msg("Shutdown error")
	}

	if err != nil {
		a.Logger().Debug().Err(err).Msg("Command failed")
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

// Execute runs the CLI with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	root := a.rootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "nutrimap",
		Short:   "Multi-source nutrition lookup and reconciliation",
		Version: a.version,
		Long: `Nutrimap looks foods up in USDA FoodData Central and, when configured,
in Nutritionix and Spoonacular, then reconciles the answers into a single
confidence-rated nutrition record.

Set USDA_API_KEY to enable lookups. NUTRITIONIX_APP_ID, NUTRITIONIX_API_KEY
and SPOONACULAR_API_KEY add the secondary providers.`,
		PersistentPreRunE: a.applyGlobalFlags,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	root.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "tracking", Title: "Tracking Commands:"},
	)

	pf := root.PersistentFlags()
	pf.String("config", "", "config file (default is $HOME/.nutrimap.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	pf.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	pf.Bool("no-color", false, "disable colored output")
	pf.StringP("format", "o", "", "output format: table, json, yaml, wide")
	pf.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	root.SetVersionTemplate("nutrimap {{.Version}}\n")
	a.registerCommands(root)
	return root
}

type globalFlags struct {
	config   string
	verbose  bool
	quiet    bool
	noColor  bool
	format   string
	logLevel string
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	var (
		g    globalFlags
		errs []error
	)
	str := func(name string, dst *string) {
		v, err := cmd.Flags().GetString(name)
		errs = append(errs, err)
		*dst = v
	}
	flag := func(name string, dst *bool) {
		v, err := cmd.Flags().GetBool(name)
		errs = append(errs, err)
		*dst = v
	}
	str("config", &g.config)
	flag("verbose", &g.verbose)
	flag("quiet", &g.quiet)
	flag("no-color", &g.noColor)
	str("format", &g.format)
	str("log-level", &g.logLevel)

	for _, err := range errs {
		if err != nil {
			return globalFlags{}, err
		}
	}
	return g, nil
}

// applyGlobalFlags reloads an explicit config file, then layers the global
// flags over it and rebuilds the logger.
func (a *App) applyGlobalFlags(cmd *cobra.Command, _ []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	if _, err := output.ParseFormat(g.format); err != nil {
		return err
	}

	if g.config != "" {
		config, err := LoadConfigFile(g.config)
		if err != nil {
			return err
		}
		a.config = config
	}

	a.config.UpdateFromFlags(g.verbose, g.quiet, g.noColor, g.format, g.logLevel)
	logger := NewLogger(a.config)
	a.logger = &logger
	return nil
}

// printError writes the display-safe form of err. Lookup failures only
// ever show their fixed user message.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %s\n", errorMessage(err))
}

func errorMessage(err error) string {
	if msg, ok := errors.UserMessage(err); ok {
		return msg
	}
	return err.Error()
}
