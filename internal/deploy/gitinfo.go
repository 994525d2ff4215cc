package deploy

import (
	git "github.com/go-git/go-git/v5"
)

// Revision identifies the source checkout being deployed: HEAD's abbreviated
// hash plus a -dirty marker when the worktree has local changes. Returns ""
// when dir is not inside a git repository.
func Revision(dir string) string {
	if dir == "" {
		return ""
	}
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	rev := head.Hash().String()[:12]
	wt, err := repo.Worktree()
	if err != nil {
		return rev
	}
	status, err := wt.Status()
	if err != nil {
		return rev
	}
	if !status.IsClean() {
		rev += "-dirty"
	}
	return rev
}
