// Package archive builds Walk abstraction on top of "archive/zip".
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/maruel/natural"
)

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk
// The file argument is the zip.File structure for file in archive which satisfies
// match condition. If an error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk visits all files in the archive which are located under prefix and
// satisfy match (nil matches everything), calling walkFn for each item in
// natural order of their names. Archives with entries containing path
// traversal components ("..") or absolute paths are rejected.
func Walk(archive, prefix string, match func(name string) bool, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if match != nil && !match(name) {
			continue
		}
		files = append(files, f)
	}
	slices.SortFunc(files, func(a, b *zip.File) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
