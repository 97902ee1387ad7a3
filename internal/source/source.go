// Package source resolves which files to analyze, including the changed
// files of a git working tree or commit range.
package source

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
)

// ChangedFile is one file touched by a diff, identified by its new-side
// path. Deleted and binary files are skipped; there is nothing to submit.
type ChangedFile struct {
	Path    string
	IsNew   bool
	Added   int
	Deleted int
}

// ChangedFiles parses unified diff text and lists the analyzable files.
func ChangedFiles(raw string) ([]ChangedFile, error) {
	parsed, _, err := gitdiff.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing diff: %w", err)
	}

	var files []ChangedFile
	for _, f := range parsed {
		if f.IsDelete || f.IsBinary {
			continue
		}
		cf := ChangedFile{
			Path:  f.NewName,
			IsNew: f.IsNew,
		}
		if cf.Path == "" {
			cf.Path = f.OldName
		}
		for _, frag := range f.TextFragments {
			for _, line := range frag.Lines {
				switch line.Op {
				case gitdiff.OpAdd:
					cf.Added++
				case gitdiff.OpDelete:
					cf.Deleted++
				}
			}
		}
		files = append(files, cf)
	}

	return files, nil
}

// GitDiff runs `git diff` in repoDir and returns the raw output. With an
// empty range it diffs the working tree against HEAD.
func GitDiff(repoDir, commitRange string) (string, error) {
	args := []string{"diff"}
	if commitRange != "" {
		args = append(args, commitRange)
	}
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	return string(out), nil
}

// RepoRoot returns the top-level directory of the enclosing git repository.
func RepoRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("not in a git repository (or git not installed): %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Read loads a changed file's current contents from the repository.
func Read(repoDir string, cf ChangedFile) (string, error) {
	data, err := os.ReadFile(filepath.Join(repoDir, cf.Path))
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", cf.Path, err)
	}
	return string(data), nil
}
