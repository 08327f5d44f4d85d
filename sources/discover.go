// Package sources turns command-line paths into batch documents.
// Directories are walked recursively for saved product pages, explicit
// files are taken as given, and each file is read once.
package sources

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gaurav-prasanna/catalogpipe/batch"
)

// PathError reports a path that could not be discovered or read.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// Discover expands files and directories into page files, in discovery
// order and without duplicates. Problems with one path never stop the
// others; they are returned alongside the results.
func Discover(paths []string) ([]string, []error) {
	queue := NewQueue()
	var errs []error

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			errs = append(errs, &PathError{Path: p, Err: err})
			continue
		}
		if !info.IsDir() {
			queue.Add(p)
			continue
		}
		if err := walk(p, queue); err != nil {
			errs = append(errs, &PathError{Path: p, Err: err})
		}
	}
	return queue.All(), errs
}

// walk adds page files under root in lexical order.
func walk(root string, queue *Queue) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && IsHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && IsPageFile(d.Name()) {
			queue.Add(path)
		}
		return nil
	})
}

// Load discovers paths and reads every page into a batch document labelled
// with its base name.
func Load(paths []string) ([]batch.Document, []error) {
	files, errs := Discover(paths)

	docs := make([]batch.Document, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f)
		if err != nil {
			errs = append(errs, &PathError{Path: f, Err: err})
			continue
		}
		docs = append(docs, batch.Document{Source: filepath.Base(f), Content: content})
	}
	return docs, errs
}
