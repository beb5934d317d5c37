package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"doxyhl/grammar"
	"doxyhl/highlight"
	"doxyhl/state"
)

// Tokens prints how language classifies source file, one token per line.
// Useful when grammar rules are being debugged.
func Tokens(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("tokens")

	lang, fname := cmd.Args().Get(0), cmd.Args().Get(1)
	if len(lang) == 0 {
		return errors.New("no language has been specified")
	}
	if len(fname) == 0 {
		return errors.New("no input file has been specified")
	}

	data, err := os.ReadFile(fname)
	if err != nil {
		return fmt.Errorf("unable to read input: %w", err)
	}

	engine, err := highlight.New(&env.Cfg.Document.Highlight, log)
	if err != nil {
		return fmt.Errorf("unable to create highlighting engine: %w", err)
	}
	if err := grammar.NewRegistry(engine, log).RegisterAll(); err != nil {
		return err
	}

	if cmd.Bool("rules") {
		g, ok := engine.Language(lang)
		if !ok {
			log.Warn("Language is not described by grammar, no rules to show", zap.String("language", lang))
		} else {
			fmt.Fprintln(os.Stdout, grammar.Describe(g))
		}
	}

	log.Debug("Tokenising", zap.String("language", lang), zap.String("file", fname), zap.Strings("hosted", engine.Languages()))
	return printTokens(os.Stdout, engine, lang, string(data))
}

func printTokens(w io.Writer, engine *highlight.Engine, lang, text string) error {
	tokens, err := engine.Tokenise(lang, text)
	if err != nil {
		return err
	}
	for _, t := range tokens {
		if _, err := fmt.Fprintf(w, "%-24s %s\n", t.Type.String(), strconv.Quote(t.Value)); err != nil {
			return err
		}
	}
	return nil
}
