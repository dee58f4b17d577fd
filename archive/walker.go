// Package archive reads document bundles: zip archives with many documents
// packed together.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"strings"
)

// WalkFunc is called for every matching entry of the bundle. The name is
// entry path inside archive. If an error is returned, processing stops.
type WalkFunc func(name string, r io.Reader) error

// Walk visits all regular entries with requested extension (case
// insensitive, empty matches everything) in archive order. Bundles with
// absolute or escaping entry paths are rejected as a whole.
func Walk(archive, ext string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		// reader is returned along with zip.ErrInsecurePath
		if r != nil {
			r.Close()
		}
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if !isSafePath(f.Name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", f.Name)
		}
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() || (ext != "" && !strings.EqualFold(path.Ext(f.Name), ext)) {
			continue
		}
		if err := visit(f, walkFn); err != nil {
			return err
		}
	}
	return nil
}

func visit(f *zip.File, walkFn WalkFunc) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("zip entry %q: %w", f.Name, err)
	}
	defer rc.Close()
	return walkFn(f.Name, rc)
}

// EntryID derives document identifier from entry path: base name without
// extension.
func EntryID(name string) string {
	base := path.Base(name)
	return strings.TrimSuffix(base, path.Ext(base))
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for part := range strings.SplitSeq(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
