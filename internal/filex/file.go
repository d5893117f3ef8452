// Package filex has small filesystem helpers for staging upload sources.
package filex

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// EnsureSubDir creates dirName (relative to the working directory unless
// absolute) and returns its absolute path.
func EnsureSubDir(dirName string) (string, error) {
	dir := dirName
	if !filepath.IsAbs(dir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getwd: %w", err)
		}
		dir = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// CompactName returns the base name of path with all whitespace removed.
func CompactName(path string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, filepath.Base(path))
}

// TempCopy copies src into a new file under dir (os.TempDir() when empty),
// keeping the extension. The returned cleanup removes the copy and is safe
// to call more than once.
func TempCopy(src, dir string) (path string, cleanup func(), err error) {
	in, err := os.Open(src)
	if err != nil {
		return "", nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.CreateTemp(dir, "staged-*"+filepath.Ext(src))
	if err != nil {
		return "", nil, fmt.Errorf("create temp: %w", err)
	}
	path = out.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		cleanup()
		return "", nil, fmt.Errorf("copy %s: %w", src, err)
	}
	if err := out.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close %s: %w", path, err)
	}

	return path, cleanup, nil
}
