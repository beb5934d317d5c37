package convert

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
)

// buildOutputPath returns location of the processed page. "src" is page path
// relative to the processing root (base name when single page was requested),
// "dst" is destination directory.
func buildOutputPath(src, dst string) string {
	return filepath.Join(dst, filepath.FromSlash(src))
}

// isPage checks page extension against configured list, case insensitive.
func isPage(name string, exts []string) bool {
	ext := strings.ToLower(path.Ext(filepath.ToSlash(name)))
	return len(ext) > 0 && slices.ContainsFunc(exts, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// reportName makes flat, file system friendly name for page stored in debug
// report.
func reportName(kind, src string) string {
	src = filepath.ToSlash(src)
	ext := path.Ext(src)
	return kind + "/" + slug.Make(strings.TrimSuffix(src, ext)) + ext
}

// writePage atomically puts page content to its final location.
func writePage(name string, data []byte, replace bool) error {
	if _, err := os.Stat(name); err == nil {
		if !replace {
			return fmt.Errorf("output file already exists: %s", name)
		}
	} else if !os.IsNotExist(err) {
		return err
	}

	dir := filepath.Dir(name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(name)+".*")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write page: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to write page: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), name)
}
