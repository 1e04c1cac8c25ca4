// Package scanner enumerates the source files a folder review walks.
package scanner

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// DefaultDenyDirs are directories never descended into: build artifacts,
// dependency trees, and VCS metadata.
var DefaultDenyDirs = []string{
	"node_modules", ".git", "dist", "build", "coverage",
	"__pycache__", ".next", "out", "target", "venv",
}

// Options configures a Scanner.
type Options struct {
	// DenyDirs overrides the directory deny-list. Nil means the default.
	DenyDirs []string
	// Gitignore additionally applies .gitignore patterns found in the
	// enclosing repository.
	Gitignore bool
	// MaxFileSize skips files larger than this many bytes; 0 means no
	// limit.
	MaxFileSize int64
}

// Scanner finds reviewable source files in a directory tree.
type Scanner struct {
	opts     Options
	denyDirs map[string]bool
	matchers []gitignore.Matcher
}

// New creates a file scanner.
func New(opts Options) *Scanner {
	deny := opts.DenyDirs
	if deny == nil {
		deny = DefaultDenyDirs
	}
	denySet := make(map[string]bool, len(deny))
	for _, d := range deny {
		denySet[d] = true
	}
	return &Scanner{opts: opts, denyDirs: denySet}
}

// findGitRoot walks up from start looking for a .git directory. Returns
// empty when not inside a repository.
func findGitRoot(start string) string {
	dir := start
	for {
		if info, err := os.Stat(filepath.Join(dir, ".git")); err == nil && info.IsDir() {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func (s *Scanner) loadGitignore(root string) {
	if !s.opts.Gitignore {
		return
	}
	gitRoot := findGitRoot(root)
	if gitRoot == "" {
		return
	}
	fsys := osfs.New(gitRoot)
	if patterns, err := gitignore.ReadPatterns(fsys, nil); err == nil && len(patterns) > 0 {
		s.matchers = append(s.matchers, gitignore.NewMatcher(patterns))
	}
}

func (s *Scanner) ignored(relPath string, isDir bool) bool {
	if len(s.matchers) == 0 {
		return false
	}
	parts := strings.Split(relPath, string(filepath.Separator))
	for _, m := range s.matchers {
		if m.Match(parts, isDir) {
			return true
		}
	}
	return false
}

// ScanDir recursively walks root and returns the reviewable files in
// walk order. Deny-listed and hidden directories are skipped, as are
// hidden files and anything whose extension is not on the allow-list.
// Symlinks escaping the root are not followed.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	absRoot, err = filepath.EvalSymlinks(absRoot)
	if err != nil {
		return nil, err
	}

	s.loadGitignore(root)

	files := make([]string, 0, 256)
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		name := d.Name()
		relPath, _ := filepath.Rel(root, path)

		if d.Type()&fs.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(path)
			if err != nil || !isWithinRoot(resolved, absRoot) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			if s.denyDirs[name] || strings.HasPrefix(name, ".") || s.ignored(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || s.ignored(relPath, false) {
			return nil
		}
		if DetectLanguage(path) == "" {
			return nil
		}
		if s.opts.MaxFileSize > 0 {
			if info, err := d.Info(); err != nil || info.Size() > s.opts.MaxFileSize {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, walkErr
}

// isWithinRoot checks containment without being fooled by sibling
// prefixes like /root2 vs /root.
func isWithinRoot(path, root string) bool {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)
	return absPath == root || strings.HasPrefix(absPath, root+string(filepath.Separator))
}
