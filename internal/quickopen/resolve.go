package quickopen

import (
	"os"
	"path/filepath"

	"github.com/runger/quickopen/internal/sanitize"
)

// Resolver attaches metadata to paths.
type Resolver struct {
	// FollowSymlinks accepts symbolic links to regular files.
	FollowSymlinks bool
}

// Resolve builds the candidate for path using the default policy, which
// rejects symbolic links.
func Resolve(path, hint string) (Candidate, bool) {
	return Resolver{}.Resolve(path, hint)
}

// Resolve builds the candidate for path. hint, when non-empty, is the
// display name supplied by the recent-files registry; otherwise the base
// name is used. It returns false when the path vanished, is a directory,
// is a rejected symbolic link or has no displayable name.
func (r Resolver) Resolve(path, hint string) (Candidate, bool) {
	info, err := os.Lstat(path)
	if err != nil {
		return Candidate{}, false
	}
	mode := info.Mode()
	if mode&os.ModeSymlink != 0 {
		if !r.FollowSymlinks {
			return Candidate{}, false
		}
		info, err = os.Stat(path)
		if err != nil {
			return Candidate{}, false
		}
		mode = info.Mode()
	}
	if mode.IsDir() {
		return Candidate{}, false
	}

	name := sanitize.Sanitize(hint)
	if name == "" {
		name = sanitize.Sanitize(filepath.Base(path))
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return Candidate{}, false
	}

	return Candidate{
		Path:        path,
		DisplayName: name,
		Kind:        KindOf(path),
		RecencyRank: -1,
	}, true
}
