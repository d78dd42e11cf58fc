package extract

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/intentmap/pkg/constants"
)

// shortCommit reads the current commit hash straight from the repo's .git
// directory and abbreviates it. Returns "unknown" when the repo has no
// resolvable HEAD. Reading refs directly avoids shelling out to git and
// keeps extraction dependency-free on the host toolchain.
func shortCommit(repoPath string) string {
	gitDir := resolveGitDir(repoPath)
	if gitDir == "" {
		return "unknown"
	}

	head, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return "unknown"
	}

	ref := strings.TrimSpace(string(head))
	if !strings.HasPrefix(ref, "ref: ") {
		// Detached HEAD: the file holds the hash itself.
		return abbreviate(ref)
	}

	refName := strings.TrimPrefix(ref, "ref: ")
	if data, err := os.ReadFile(filepath.Join(gitDir, filepath.FromSlash(refName))); err == nil {
		return abbreviate(strings.TrimSpace(string(data)))
	}

	// Ref may only exist in packed-refs.
	if data, err := os.ReadFile(filepath.Join(gitDir, "packed-refs")); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			if strings.HasSuffix(line, " "+refName) {
				return abbreviate(strings.Fields(line)[0])
			}
		}
	}

	return "unknown"
}

// resolveGitDir locates the .git directory, following the gitdir pointer
// file used by worktrees and submodules.
func resolveGitDir(repoPath string) string {
	gitPath := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitPath)
	if err != nil {
		return ""
	}
	if info.IsDir() {
		return gitPath
	}

	data, err := os.ReadFile(gitPath)
	if err != nil {
		return ""
	}
	line := strings.TrimSpace(string(data))
	if !strings.HasPrefix(line, "gitdir: ") {
		return ""
	}
	dir := strings.TrimPrefix(line, "gitdir: ")
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(repoPath, dir)
	}
	return dir
}

// abbreviate shortens a commit hash to the configured length.
func abbreviate(hash string) string {
	if len(hash) < constants.ShortCommitLength {
		return "unknown"
	}
	return hash[:constants.ShortCommitLength]
}
