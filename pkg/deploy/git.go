package deploy

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GitInfo is what the deployer needs to know about the worktree.
type GitInfo struct {
	// Tag describes HEAD: the exact tag when there is one, otherwise a
	// describe-style tag-plus-commits form, otherwise the short hash.
	Tag string

	// ExactTag is true when HEAD sits exactly at a tag.
	ExactTag bool

	// Dirty is true when the worktree has uncommitted changes.
	Dirty bool
}

// InspectGit reads tag and dirtiness of the worktree at dir.
func InspectGit(ctx context.Context, dir string) (GitInfo, error) {
	info := GitInfo{}

	out, err := gitOutput(ctx, dir, "describe", "--tags", "--always")
	if err != nil {
		return GitInfo{}, fmt.Errorf("git describe: %w", err)
	}
	info.Tag = out

	if _, err := gitOutput(ctx, dir, "describe", "--tags", "--exact-match"); err == nil {
		info.ExactTag = true
	}

	status, err := gitOutput(ctx, dir, "status", "--porcelain")
	if err != nil {
		return GitInfo{}, fmt.Errorf("git status: %w", err)
	}
	info.Dirty = status != ""

	return info, nil
}

func gitOutput(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
