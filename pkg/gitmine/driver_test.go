package gitmine

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/diffhouse/gitmine/testutil"
)

// TestNewDriver_Succeeds verifies construction against a real repository
// directory with git installed and new enough.
func TestNewDriver_Succeeds(t *testing.T) {
	repo := testutil.LinearHistory(t, 1)
	d, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	if d.Version() == "" {
		t.Error("Version() is empty after successful construction")
	}
}

// TestNewDriver_MissingDir verifies a nonexistent directory fails before
// ever touching git.
func TestNewDriver_MissingDir(t *testing.T) {
	if _, err := NewDriver(context.Background(), "/no/such/directory/gitmine-test"); err == nil {
		t.Fatal("expected error for nonexistent directory, got nil")
	}
}

// TestDriver_RunStreamsStdout verifies Run spools stdout and Close removes
// the spool file.
func TestDriver_RunStreamsStdout(t *testing.T) {
	repo := testutil.LinearHistory(t, 3)
	d, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	stream, err := d.Run(context.Background(), "log", "--pretty=format:%H")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	out, err := io.ReadAll(stream)
	if err != nil {
		t.Fatalf("reading stream: %v", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	hashes := strings.Split(strings.TrimSpace(string(out)), "\n")
	if len(hashes) != 3 {
		t.Fatalf("got %d commit hashes, want 3: %v", len(hashes), hashes)
	}
}

// TestDriver_RunNonZeroExit verifies an invalid git invocation surfaces a
// GitError carrying stderr.
func TestDriver_RunNonZeroExit(t *testing.T) {
	repo := testutil.LinearHistory(t, 1)
	d, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	_, err = d.Run(context.Background(), "not-a-real-subcommand")
	if err == nil {
		t.Fatal("expected error for invalid git subcommand, got nil")
	}
	var gitErr *GitError
	if !errors.As(err, &gitErr) {
		t.Fatalf("expected *GitError, got %T: %v", err, err)
	}
}

// TestDriver_RunSilentNonZeroExit verifies RunSilent, like Run, returns an
// error for an invalid git invocation.
func TestDriver_RunSilentNonZeroExit(t *testing.T) {
	repo := testutil.LinearHistory(t, 1)
	d, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	err = d.RunSilent(context.Background(), "not-a-real-subcommand")
	if err == nil {
		t.Fatal("expected error for invalid git subcommand, got nil")
	}
}

// TestDriver_LsRemoteLocalPath verifies ls-remote works against a plain
// local repository path, used by RefPipeline.
func TestDriver_LsRemoteLocalPath(t *testing.T) {
	repo := testutil.DiamondMerge(t)
	d, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	lines, err := d.LsRemote(context.Background(), repo.Dir, "branches")
	if err != nil {
		t.Fatalf("LsRemote: %v", err)
	}
	found := false
	for _, line := range lines {
		if strings.Contains(line, "refs/heads/feature") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected refs/heads/feature among %v", lines)
	}
}

