// Package workspace builds the context snapshot attached to each chat turn:
// a bounded list of workspace file paths plus a bounded set of open-document
// contents. Everything here is read-only.
package workspace

// OpenFile is an open editor document included in the snapshot. Content may
// be empty when only the path is known.
type OpenFile struct {
	Path    string `json:"path"`
	Content string `json:"content,omitempty"`
}

// Snapshot is the context bundle for a single chat turn. It is built fresh
// per request and never mutated after construction.
type Snapshot struct {
	WorkspaceName string     `json:"workspaceName"`
	Files         []string   `json:"files"`
	OpenFiles     []OpenFile `json:"openFiles"`
}
