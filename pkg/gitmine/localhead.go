package gitmine

import (
	"context"
	"errors"
)

// currentBranch returns the short name of the clone's current branch, or
// ErrDetachedHead when `git symbolic-ref` fails. No pipeline calls it:
// default-branch detection is "reachable from `git log` with no --all",
// which in a bare clone is the remote's HEAD, and CommitPipeline does not
// check for a detached HEAD.
func (d *Driver) currentBranch(ctx context.Context) (string, error) {
	out, err := d.runCaptured(ctx, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", ErrDetachedHead
	}
	return out, nil
}

// isDetached reports whether the clone's HEAD is not on a branch.
func (d *Driver) isDetached(ctx context.Context) (bool, error) {
	_, err := d.currentBranch(ctx)
	if errors.Is(err, ErrDetachedHead) {
		return true, nil
	}
	return false, err
}
