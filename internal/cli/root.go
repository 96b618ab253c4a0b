package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cfgen-dev/cfgen/internal/command"
	"github.com/cfgen-dev/cfgen/internal/config"
	"github.com/cfgen-dev/cfgen/internal/errors"
	"github.com/cfgen-dev/cfgen/internal/ui"
)

// Global flags
var (
	configFlag  string
	verboseFlag bool
)

// rootCmd is the top of the CLI tree. The commands declared in the config
// file are synthesized onto it before parsing starts.
var rootCmd = &cobra.Command{
	Use:   "cfgen",
	Short: "Generate project configuration and run declared commands",
	Long: `cfgen resolves the variables declared in .cfgen.yaml and generates
configuration outputs from them. Commands declared in the config file become
first-class subcommands with typed, validated options and arguments.

Examples:
  cfgen deploy --env staging api
  cfgen db migrate
  cfgen build`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default: .cfgen.yaml, searched upward)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "verbose output")
}

// Execute loads the configuration, synthesizes the declared command surface,
// and runs the CLI. It owns process exit: any failure becomes a visible
// message and a non-zero exit code (the command's own code when it has one,
// 1 otherwise).
func Execute() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, formatError(err))
		os.Exit(errors.ExitCode(err))
	}
}

func run() error {
	// Global flags are pre-scanned by hand because the config file must be
	// loaded, and its commands synthesized, before cobra parses anything.
	explicit, verbose := prescanGlobalFlags(os.Args[1:])

	cfg, err := config.LoadOrDefault(explicit)
	if err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrExec,
			"Failed to get working directory",
			"Check directory permissions")
	}

	// One context per CLI invocation, shared read-only by every dispatch.
	ctx := command.NewContext(workDir, command.EnvSnapshot(os.Environ()), verbose, cfg)

	if err := BuildCommandSurface(rootCmd, cfg.Commands, ctx); err != nil {
		return err
	}

	return rootCmd.Execute()
}

// prescanGlobalFlags extracts --config and --verbose ahead of cobra parsing.
func prescanGlobalFlags(args []string) (configPath string, verbose bool) {
	for i := 0; i < len(args); i++ {
		switch a := args[i]; {
		case a == "--config" && i+1 < len(args):
			configPath = args[i+1]
			i++
		case strings.HasPrefix(a, "--config="):
			configPath = strings.TrimPrefix(a, "--config=")
		case a == "--verbose" || a == "-v":
			verbose = true
		}
	}
	return configPath, verbose
}

// formatError renders a top-level failure. Structured errors already carry
// their own formatting; bare exit errors get the failure symbol.
func formatError(err error) string {
	var exitErr *errors.ExitError
	if stderrors.As(err, &exitErr) {
		symbol := lipgloss.NewStyle().Foreground(ui.ColorError).Render(ui.SymbolFail)
		return fmt.Sprintf("%s %s", symbol, exitErr.Error())
	}
	return strings.TrimRight(err.Error(), "\n")
}
