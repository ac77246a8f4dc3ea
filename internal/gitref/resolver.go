// Package gitref resolves git:REF comparison targets by materializing
// the ref's tree into a temporary directory via the git binary.
package gitref

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Prefix marks a comparison target as a git ref
const Prefix = "git:"

var unsafeChars = regexp.MustCompile(`[^\w\-.]`)

// IsRef reports whether the target uses the git: prefix
func IsRef(target string) bool {
	return strings.HasPrefix(target, Prefix)
}

// Resolver turns git:REF targets into extracted directory paths. Plain
// filesystem paths pass through unchanged. Call Cleanup when the run
// is done to remove the extracted trees.
type Resolver struct {
	workDir  string
	repoRoot string
	tmpDirs  []string
}

// NewResolver creates a resolver running git commands from workDir
// (empty means the current directory)
func NewResolver(workDir string) *Resolver {
	return &Resolver{workDir: workDir}
}

// Resolve returns a filesystem path for the target, extracting the
// ref's tree when the git: prefix is present
func (r *Resolver) Resolve(target string) (string, error) {
	if !IsRef(target) {
		return target, nil
	}

	ref := strings.TrimPrefix(target, Prefix)
	if ref == "" {
		return "", fmt.Errorf("empty git ref")
	}
	// Refs are passed to git as positional arguments; reject anything
	// that could be parsed as an option.
	if strings.HasPrefix(ref, "-") {
		return "", fmt.Errorf("invalid git ref %q", ref)
	}

	root, err := r.findRepoRoot()
	if err != nil {
		return "", err
	}

	sha, err := r.git(root, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("unknown git ref %q: %w", ref, err)
	}

	return r.extract(root, strings.TrimSpace(sha), displayName(ref))
}

// Cleanup removes all extracted trees
func (r *Resolver) Cleanup() {
	for _, dir := range r.tmpDirs {
		os.RemoveAll(dir)
	}
	r.tmpDirs = nil
}

func (r *Resolver) findRepoRoot() (string, error) {
	if r.repoRoot != "" {
		return r.repoRoot, nil
	}
	out, err := r.git(r.workDir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not inside a git repository: %w", err)
	}
	r.repoRoot = strings.TrimSpace(out)
	return r.repoRoot, nil
}

// extract writes every blob of the ref's tree below a named directory,
// so the display name of the extracted root reflects the ref
func (r *Resolver) extract(repoRoot, sha, name string) (string, error) {
	tmpDir, err := os.MkdirTemp("", "deepdiff-git-")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	r.tmpDirs = append(r.tmpDirs, tmpDir)

	root := filepath.Join(tmpDir, name)
	if err := os.Mkdir(root, 0755); err != nil {
		return "", fmt.Errorf("failed to create extraction directory: %w", err)
	}

	listing, err := r.git(repoRoot, "ls-tree", "-r", "--name-only", "-z", sha)
	if err != nil {
		return "", fmt.Errorf("failed to list tree for %s: %w", sha, err)
	}

	for _, rel := range strings.Split(listing, "\x00") {
		if rel == "" {
			continue
		}
		content, err := r.gitRaw(repoRoot, "cat-file", "blob", sha+":"+rel)
		if err != nil {
			return "", fmt.Errorf("failed to read %s at %s: %w", rel, sha, err)
		}
		dest := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return "", err
		}
		if err := os.WriteFile(dest, content, 0644); err != nil {
			return "", err
		}
	}

	return root, nil
}

func (r *Resolver) git(dir string, args ...string) (string, error) {
	out, err := r.gitRaw(dir, args...)
	return string(out), err
}

func (r *Resolver) gitRaw(dir string, args ...string) ([]byte, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("git %s: %s", args[0], msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// displayName builds a filesystem-safe directory name from a ref
func displayName(ref string) string {
	safe := unsafeChars.ReplaceAllString(ref, "_")
	if len(safe) > 50 {
		safe = safe[:50]
	}
	if safe == "" {
		safe = "ref"
	}
	return safe
}
