package workspace

import (
	"context"
	"os"
	"path/filepath"
)

// PinnedFileSource reads a fixed set of workspace-relative paths from disk.
// It stands in for an editor's visible-document list when sidenote runs as a
// standalone panel: the user pins the files they are working on.
type PinnedFileSource struct {
	Root  string
	Paths []string
}

// OpenFiles implements OpenFileSource. Unreadable paths are skipped.
func (s *PinnedFileSource) OpenFiles(ctx context.Context) []OpenFile {
	out := make([]OpenFile, 0, len(s.Paths))
	for _, p := range s.Paths {
		if ctx.Err() != nil {
			break
		}
		full := p
		if !filepath.IsAbs(p) {
			full = filepath.Join(s.Root, p)
		}
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		out = append(out, OpenFile{Path: filepath.ToSlash(p), Content: string(data)})
	}
	return out
}
