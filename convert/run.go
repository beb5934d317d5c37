package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	"github.com/h2non/filetype"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"

	"doxyhl/archive"
	"doxyhl/config"
	"doxyhl/grammar"
	"doxyhl/highlight"
	"doxyhl/page"
	"doxyhl/pipeline"
	"doxyhl/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("highlight")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	// no destination - pages are rewritten in place
	dst := cmd.Args().Get(1)
	if len(dst) > 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")

	// Doxygen always produces UTF-8, but pages may be post-processed by
	// other tools
	cp := cmd.String("force-cp")
	if len(cp) == 0 {
		cp = env.Cfg.Document.Encoding
	}
	if len(cp) > 0 {
		if env.CodePage, err = ianaindex.IANA.Encoding(cp); err != nil || env.CodePage == nil {
			log.Warn("Unknown character set specification. Ignoring...", zap.String("charset", cp), zap.Error(err))
			env.CodePage = nil
		} else {
			n, _ := ianaindex.IANA.Name(env.CodePage)
			log.Debug("Forcefully decoding all pages", zap.String("charset", n))
		}
	}

	engine, err := highlight.New(&env.Cfg.Document.Highlight, log)
	if err != nil {
		return fmt.Errorf("unable to create highlighting engine: %w", err)
	}
	p, err := pipeline.New(engine, &env.Cfg.Document, log)
	if err != nil {
		return fmt.Errorf("unable to prepare processing: %w", err)
	}
	if err := p.Prepare(); err != nil {
		return err
	}
	if env.Rpt != nil {
		storeGrammars(env.Rpt, engine)
	}

	if css := env.Cfg.Document.Highlight.CSSPath; len(css) > 0 {
		if err := writeStylesheet(engine, css); err != nil {
			return err
		}
		log.Info("Stylesheet written", zap.String("file", css))
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.Bool("in place", len(dst) == 0))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, p, log)
}

// process determines the input type (directory, archive, or single page) and
// processes accordingly. Empty "dst" means in place processing.
func process(ctx context.Context, src, dst string, p *pipeline.Pipeline, log *zap.Logger) error {
	var head, tail string
	for head = src; len(head) != 0; head, tail = filepath.Split(head) {
		if err := ctx.Err(); err != nil {
			return err
		}

		head = strings.TrimSuffix(head, string(filepath.Separator))

		fi, err := os.Stat(head)
		if err != nil {
			// does not exists - probably path in archive
			continue
		}

		if fi.Mode().IsDir() {
			if len(tail) != 0 {
				// directory cannot have tail - it would be simple file
				return fmt.Errorf("input source was not found (%s) => (%s)", head, strings.TrimPrefix(src, head))
			}
			if err := processDir(ctx, head, dst, p, log); err != nil {
				return fmt.Errorf("unable to process directory: %w", err)
			}
			break
		}

		if !fi.Mode().IsRegular() {
			return fmt.Errorf("unexpected path mode for (%s) => (%s)", head, strings.TrimPrefix(src, head))
		}

		arc, err := isArchiveFile(head)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if arc {
			if len(dst) == 0 {
				return fmt.Errorf("pages inside archive cannot be processed in place, destination is required (%s)", head)
			}
			// we need to look inside to see if path makes sense
			tail = strings.TrimPrefix(strings.TrimPrefix(src, head), string(filepath.Separator))
			if err := processArchive(ctx, head, filepath.ToSlash(tail), dst, p, log); err != nil {
				return fmt.Errorf("unable to process archive: %w", err)
			}
			break
		}

		if len(tail) != 0 || !isPage(head, state.EnvFromContext(ctx).Cfg.Document.Extensions) {
			return fmt.Errorf("input was not recognized as HTML page (%s)", head)
		}
		out := head
		if len(dst) > 0 {
			out = buildOutputPath(filepath.Base(head), dst)
		}
		if err := processFile(ctx, head, filepath.Base(head), out, p, log); err != nil {
			log.Error("Unable to process page", zap.String("file", head), zap.Error(err))
		}
		break
	}
	if len(head) == 0 {
		return fmt.Errorf("input source was not found (%s)", src)
	}
	return nil
}

// processDir walks directory tree finding pages and processes them.
func processDir(ctx context.Context, dir, dst string, p *pipeline.Pipeline, log *zap.Logger) (err error) {
	exts := state.EnvFromContext(ctx).Cfg.Document.Extensions

	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("dir", dir))
		}
	}()

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.Type().IsRegular() || !isPage(path, exts) {
			return nil
		}

		count++

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		out := path
		if len(dst) > 0 {
			out = buildOutputPath(rel, dst)
		}
		if err := processFile(ctx, path, rel, out, p, log); err != nil {
			log.Error("Unable to process page", zap.String("file", path), zap.Error(err))
		}
		return nil
	})
}

// processArchive walks all pages inside archive under "pathIn" and processes
// them, results are placed under "dst" keeping archive structure.
func processArchive(ctx context.Context, path, pathIn, dst string, p *pipeline.Pipeline, log *zap.Logger) (err error) {
	exts := state.EnvFromContext(ctx).Cfg.Document.Extensions

	count := 0
	defer func() {
		if err == nil && count == 0 {
			log.Debug("Nothing to process", zap.String("archive", path))
		}
	}()

	match := func(name string) bool { return isPage(name, exts) }
	return archive.Walk(path, pathIn, match, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		count++

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to process page in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		if err := processPage(ctx, r, f.Name, buildOutputPath(f.Name, dst), false, p, log); err != nil {
			log.Error("Unable to process page in archive", zap.String("archive", arc), zap.String("file", f.Name), zap.Error(err))
		}
		return nil
	})
}

func processFile(ctx context.Context, path, src, out string, p *pipeline.Pipeline, log *zap.Logger) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return processPage(ctx, file, src, out, out == path, p, log)
}

// processPage runs pipeline over single page. "src" is page path relative to
// the processing root, "out" is where result goes. Unchanged pages are not
// rewritten in place.
func processPage(ctx context.Context, r io.Reader, src, out string, inPlace bool, p *pipeline.Pipeline, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var st pipeline.Stats
	defer func(start time.Time) {
		// NOTE: chroma lexers panic on broken rules, a single bad page
		// should not stop the whole run
		if r := recover(); r != nil {
			log.Error("Page processing ended with panic",
				zap.Any("panic", r), zap.String("page", src), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("page processing panic: %v", r)
			return
		}
		if rerr == nil {
			log.Debug("Page processed", zap.String("page", src), zap.Duration("elapsed", time.Since(start)),
				zap.Int("fragments", st.Fragments), zap.Int("skipped", st.Skipped),
				zap.Int("highlighted", st.Highlighted), zap.Int("buttons", st.Buttons))
		}
	}(time.Now())

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("unable to read page: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData(reportName("source", src), data)
	}

	doc, err := page.Parse(bytes.NewReader(data), env.CodePage)
	if err != nil {
		return err
	}
	if st, err = p.Run(ctx, doc); err != nil {
		return err
	}
	if inPlace && !st.Changed() {
		return nil
	}

	buf := new(bytes.Buffer)
	if err := doc.Render(buf); err != nil {
		return fmt.Errorf("unable to render page: %w", err)
	}
	if err := writePage(out, buf.Bytes(), inPlace || env.Overwrite); err != nil {
		return err
	}
	if env.Rpt != nil {
		env.Rpt.StoreData(reportName("result", src), buf.Bytes())
	}
	return nil
}

// storeGrammars puts rule trees of all hosted languages into debug report.
func storeGrammars(rpt *config.Report, engine *highlight.Engine) {
	for _, name := range engine.Languages() {
		if g, ok := engine.Language(name); ok {
			rpt.StoreData("grammars/"+name+".txt", []byte(grammar.Describe(g)))
		}
	}
}

// isArchiveFile checks if file content is zip archive.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// enough for any signature filetype knows about
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], "zip"), nil
}
