package workspace

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/sidenote/sidenote/pkg/logging"
)

const (
	// DefaultMaxFiles caps the enumerated workspace paths per snapshot.
	DefaultMaxFiles = 20
	// DefaultMaxOpenFiles caps the open documents per snapshot.
	DefaultMaxOpenFiles = 5
	// DefaultMaxOpenFileBytes caps each open document's content.
	DefaultMaxOpenFileBytes = 10000
)

// skipDirs are build and VCS directories excluded from enumeration.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	".idea":        true,
	".vscode":      true,
}

// OpenFileSource supplies the currently open editor documents. Virtual
// (non file-backed) documents must not be returned.
type OpenFileSource interface {
	OpenFiles(ctx context.Context) []OpenFile
}

// OpenFileSourceFunc adapts a function to OpenFileSource.
type OpenFileSourceFunc func(ctx context.Context) []OpenFile

// OpenFiles implements OpenFileSource.
func (f OpenFileSourceFunc) OpenFiles(ctx context.Context) []OpenFile {
	return f(ctx)
}

// Builder collects workspace snapshots. Build never fails: enumeration
// errors degrade to empty lists.
type Builder struct {
	root             string
	maxFiles         int
	maxOpenFiles     int
	maxOpenFileBytes int
	openSource       OpenFileSource
	logger           logging.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithMaxFiles sets the workspace path cap.
func WithMaxFiles(n int) Option {
	return func(b *Builder) { b.maxFiles = n }
}

// WithMaxOpenFiles sets the open document cap.
func WithMaxOpenFiles(n int) Option {
	return func(b *Builder) { b.maxOpenFiles = n }
}

// WithMaxOpenFileBytes sets the open document content cap.
func WithMaxOpenFileBytes(n int) Option {
	return func(b *Builder) { b.maxOpenFileBytes = n }
}

// WithOpenFileSource sets the editor document collaborator.
func WithOpenFileSource(src OpenFileSource) Option {
	return func(b *Builder) { b.openSource = src }
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a snapshot builder rooted at root.
func NewBuilder(root string, opts ...Option) *Builder {
	b := &Builder{
		root:             root,
		maxFiles:         DefaultMaxFiles,
		maxOpenFiles:     DefaultMaxOpenFiles,
		maxOpenFileBytes: DefaultMaxOpenFileBytes,
		logger:           logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build collects a fresh snapshot. Ordering is stable within a call, in
// whatever order the directory walk yields; it is not guaranteed stable
// across calls.
func (b *Builder) Build(ctx context.Context) Snapshot {
	snap := Snapshot{
		WorkspaceName: filepath.Base(b.root),
		Files:         b.enumerate(ctx),
		OpenFiles:     b.collectOpen(ctx),
	}

	b.logger.Debug("workspace snapshot built",
		logging.String("workspace", snap.WorkspaceName),
		logging.Int("files", len(snap.Files)),
		logging.Int("openFiles", len(snap.OpenFiles)),
	)
	return snap
}

// errWalkDone stops the walk once the file cap is reached.
var errWalkDone = filepath.SkipAll

func (b *Builder) enumerate(ctx context.Context) []string {
	if b.maxFiles <= 0 {
		return []string{}
	}
	files := make([]string, 0, b.maxFiles)

	err := filepath.WalkDir(b.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return errWalkDone
		}

		name := d.Name()
		if d.IsDir() {
			if path == b.root {
				return nil
			}
			if skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(b.root, path)
		if err != nil {
			return nil
		}
		files = append(files, filepath.ToSlash(rel))
		if len(files) >= b.maxFiles {
			return errWalkDone
		}
		return nil
	})
	if err != nil && err != errWalkDone {
		b.logger.Warn("workspace enumeration failed", logging.Err(err))
		return []string{}
	}

	return files
}

func (b *Builder) collectOpen(ctx context.Context) []OpenFile {
	if b.openSource == nil {
		return []OpenFile{}
	}

	open := b.openSource.OpenFiles(ctx)
	if len(open) > b.maxOpenFiles {
		open = open[:b.maxOpenFiles]
	}

	out := make([]OpenFile, 0, len(open))
	for _, f := range open {
		out = append(out, OpenFile{
			Path:    f.Path,
			Content: Truncate(f.Content, b.maxOpenFileBytes),
		})
	}
	return out
}

// Truncate cuts s to at most max bytes. Content shorter than the cap is
// returned unchanged.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	return s[:max]
}
