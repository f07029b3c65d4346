package walker

import (
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Options controls which files Walk yields.
type Options struct {
	// Extensions are plain suffixes; a file is a candidate when its name ends
	// with any of them.
	Extensions []string
	// Exclude holds doublestar patterns matched against the slash-separated
	// path relative to the root and against the base name.
	Exclude []string
	Logger  *slog.Logger
}

// Walk returns the candidate files under root. Files of a directory come in
// ascending name order, before the files of its subdirectories. Directories
// that cannot be read are skipped. Symlinked directories are not followed.
func Walk(root string, opts Options) iter.Seq[string] {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &walk{root: root, opts: opts, logger: logger}
	return func(yield func(string) bool) {
		w.dir(root, yield)
	}
}

// Matches reports whether name ends with one of the extensions.
func Matches(name string, extensions []string) bool {
	for _, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

type walk struct {
	root   string
	opts   Options
	logger *slog.Logger
}

// dir yields the candidates in path and then descends. It returns false once
// the consumer stops.
func (w *walk) dir(path string, yield func(string) bool) bool {
	entries, err := os.ReadDir(path)
	if err != nil {
		w.logger.Debug("skipping unreadable directory", "dir", path, "error", err)
		return true
	}

	var subdirs []string
	for _, e := range entries {
		full := join(path, e.Name())
		isDir, follow := w.classify(e, full)
		if isDir {
			if follow && !w.excluded(full) {
				subdirs = append(subdirs, full)
			}
			continue
		}
		if !Matches(e.Name(), w.opts.Extensions) || w.excluded(full) {
			continue
		}
		if !yield(full) {
			return false
		}
	}

	for _, sub := range subdirs {
		if !w.dir(sub, yield) {
			return false
		}
	}
	return true
}

// classify reports whether an entry is a directory and whether to descend
// into it. A symlink to a directory is a directory that is not followed; a
// dangling symlink counts as a file.
func (w *walk) classify(e os.DirEntry, full string) (isDir, follow bool) {
	if e.IsDir() {
		return true, true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false, false
	}
	info, err := os.Stat(full)
	if err != nil {
		return false, false
	}
	return info.IsDir(), false
}

func (w *walk) excluded(full string) bool {
	if len(w.opts.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, full)
	if err != nil {
		rel = full
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(full)
	for _, pattern := range w.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// join keeps the root exactly as given, so a root of "." yields "./a.go"
// rather than "a.go".
func join(dir, name string) string {
	if strings.HasSuffix(dir, string(filepath.Separator)) || strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}
