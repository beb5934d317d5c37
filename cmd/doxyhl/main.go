package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"doxyhl/config"
	"doxyhl/convert"
	"doxyhl/misc"
	"doxyhl/state"
)

// initializeAppContext runs after command line has been parsed and before
// the command action, it loads configuration and sets up logging and
// reporting for the command.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if cmd.NArg() == 0 {
		// help or version
		return ctx, nil
	}

	var err error
	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData("config/"+filepath.Base(configFile), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started",
		zap.Strings("args", os.Args),
		zap.String("ver", misc.GetVersion()),
		zap.String("runtime", runtime.Version()),
		zap.String("hash", misc.GetGitHash()),
		zap.String("style", env.Cfg.Document.Highlight.Style),
		zap.Bool("copy button", env.Cfg.Document.CopyButton.Enable))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}
	env.RestoreStdLog()

	// from here on errors go directly to stderr
	if er := env.Rpt.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
	}
	if env.Cfg != nil {
		err = multierr.Append(err, removeEmptyPanicLog(env.Cfg.Logging.FileLogger.Destination))
	}
	return err
}

// removeEmptyPanicLog deletes crash output file created next to the log when
// nothing has been written there.
func removeEmptyPanicLog(logName string) error {
	if len(logName) == 0 {
		return nil
	}
	debug.SetCrashOutput(nil, debug.CrashOptions{})

	fname := filepath.Join(filepath.Dir(logName), misc.GetAppName()+"-panic.log")
	if fi, err := os.Stat(fname); err != nil || fi.Size() != 0 {
		return nil
	}
	if err := os.Remove(fname); err != nil {
		return fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, err)
	}
	return nil
}

// Actions return regular errors, cli.Exit() is not used. Set when error has
// been logged already.
var errWasHandled bool

// exitErrHandler is called before application context is destroyed while log
// is still available.
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if env := state.EnvFromContext(ctx); env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// reported by exitErrHandler or on exit
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {
	// directory runs may be long, let them stop between pages
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "code highlighting post-processor for Doxygen generated documentation",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "highlight",
				Usage:        "Highlights code fragments of Doxygen generated HTML page(s)",
				OnUsageError: usageErrorHandler,
				Action:       convert.Run,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "continue even if destination exists, overwrite files"},
					&cli.StringFlag{Name: "force-cp",
						Usage: "Force `ENCODING` for ALL processed pages ignoring their declared charset (see IANA.org for character set names)"},
				},
				ArgsUsage: "SOURCE [DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
SOURCE:
    path to HTML page(s) to process, following formats are supported:
        path to a file: "[path_to_file]file.html"
        path to a directory: "[path_to_directory]directory" - recursively process all pages under directory (symbolic links are not followed)
        path to archive with path inside archive to a particular page: "[path_to_archive]archive.zip[path_in_archive]/file.html"
        path to archive with path inside archive: "[path_to_archive]archive.zip[path_in_archive]" - recursively process all pages under archive path

	Pages are recognized by extension (see "document.extensions" in configuration),
	processing of archives inside archives is not supported.

DESTINATION:
    always a path, processed pages keep their location relative to SOURCE
    if absent - pages are rewritten in place (not possible for archives),
    pages which did not require any changes are left untouched
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "css",
				Usage:        "Outputs stylesheet for configured highlighting style",
				OnUsageError: usageErrorHandler,
				Action:       convert.Stylesheet,
				ArgsUsage:    "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    file name to write stylesheet to, if absent - "document.highlight.css_path" or STDOUT
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "tokens",
				Usage:        "Shows how source file is classified by language grammar",
				OnUsageError: usageErrorHandler,
				Action:       convert.Tokens,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "rules", Usage: "print grammar rule tree before tokens"},
				},
				ArgsUsage: "LANGUAGE FILE",
				CustomHelpTemplate: fmt.Sprintf(`%s
LANGUAGE:
    language identifier, either custom grammar (idl, cmake-ext, cmake) or any language known to chroma

FILE:
    source file to classify, tokens are printed to STDOUT one per line
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit sets exit code, no other deferred functions may follow
	defer func() {
		stop()
		if err != nil {
			// log may be not ready yet or closed already
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err  error
		data []byte
		kind string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()

	}

	if cmd.Bool("default") {
		kind = "default"
		data, err = config.Prepare()
	} else {
		kind = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Writing configuration", zap.String("state", kind), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
