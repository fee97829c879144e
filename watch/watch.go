// Package watch is the ambient-stack analogue of the teacher's
// Bundle.WatchFiles: it watches a set of directories for template file
// writes and reparses each changed file through the parser package,
// reporting diagnostics through a *log.Logger. It is the stand-in for
// "the language server drives the core from a multi-threaded event
// loop" (spec.md §5) without implementing the LSP itself, which is out
// of scope per spec.md §1.
package watch

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/dbt-labs/dbt-jinja-cst/parser"
)

// Logger is used to report re-parse failures when a watched file
// changes, the same role soy.Logger plays for Bundle.WatchFiles.
var Logger = log.New(os.Stderr, "[dbt-jinja-cst] ", 0)

// Watcher watches a set of directories for template file writes,
// reparsing each one and logging its diagnostics. A Watcher owns no
// state from the core: every reparse is an independent call into
// parser.Parse, so concurrent file-change events never interact.
type Watcher struct {
	dirs   []string
	exts   map[string]bool
	logger *log.Logger
}

// New returns a Watcher with the default extension filter (".sql",
// ".jinja") and Logger.
func New() *Watcher {
	return &Watcher{
		exts:   map[string]bool{".sql": true, ".jinja": true},
		logger: Logger,
	}
}

// AddTemplateDir registers a directory to watch, chaining the way the
// teacher's Bundle.AddTemplateDir does.
func (w *Watcher) AddTemplateDir(dir string) *Watcher {
	w.dirs = append(w.dirs, dir)
	return w
}

// WithExtensions replaces the set of file extensions treated as
// template files.
func (w *Watcher) WithExtensions(exts ...string) *Watcher {
	w.exts = make(map[string]bool, len(exts))
	for _, e := range exts {
		w.exts[strings.ToLower(e)] = true
	}
	return w
}

// WithLogger overrides the default Logger for this Watcher.
func (w *Watcher) WithLogger(l *log.Logger) *Watcher {
	w.logger = l
	return w
}

// WatchFiles starts watching every registered directory and returns the
// underlying *fsnotify.Watcher so the caller can Close it to stop. A
// background goroutine reparses changed files until the watcher is
// closed, the way Bundle.WatchFiles drives its recompiler goroutine off
// fsnotify events.
func (w *Watcher) WatchFiles() (*fsnotify.Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range w.dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	go w.recompile(fsw)
	return fsw, nil
}

// recompile is the watcher goroutine: it reparses on every Write/Create
// event for a recognized extension and forwards watch errors to the
// logger, never to the parse result (a broken filesystem watch is not a
// parse diagnostic).
func (w *Watcher) recompile(fsw *fsnotify.Watcher) {
	for {
		select {
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !w.exts[strings.ToLower(filepath.Ext(ev.Name))] {
				continue
			}
			w.reparse(ev.Name)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Printf("watch error: %v", err)
		}
	}
}

func (w *Watcher) reparse(path string) {
	text, err := os.ReadFile(path)
	if err != nil {
		w.logger.Printf("%s: %v", path, err)
		return
	}
	result := parser.Parse(string(text))
	for _, d := range result.Errors {
		w.logger.Printf("%s: %s", path, d.Message)
	}
}
