package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"doxyhl/highlight"
	"doxyhl/state"
)

// Stylesheet writes CSS for configured highlighting style either to the
// file given on command line, to configured css_path or to STDOUT.
func Stylesheet(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("css")

	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	engine, err := highlight.New(&env.Cfg.Document.Highlight, log)
	if err != nil {
		return fmt.Errorf("unable to create highlighting engine: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		fname = env.Cfg.Document.Highlight.CSSPath
	}
	if len(fname) == 0 {
		log.Debug("Outputing stylesheet", zap.String("style", env.Cfg.Document.Highlight.Style), zap.String("file", "STDOUT"))
		return engine.WriteCSS(os.Stdout)
	}

	if err := writeStylesheet(engine, fname); err != nil {
		return err
	}
	log.Info("Stylesheet written", zap.String("style", env.Cfg.Document.Highlight.Style), zap.String("file", fname))
	return nil
}

func writeStylesheet(engine *highlight.Engine, fname string) error {
	buf := new(bytes.Buffer)
	if err := engine.WriteCSS(buf); err != nil {
		return fmt.Errorf("unable to generate stylesheet: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fname), 0755); err != nil {
		return fmt.Errorf("unable to create stylesheet directory: %w", err)
	}
	if err := os.WriteFile(fname, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write stylesheet '%s': %w", fname, err)
	}
	return nil
}
