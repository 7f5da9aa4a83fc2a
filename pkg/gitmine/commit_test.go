package gitmine

import (
	"context"
	"testing"

	"github.com/diffhouse/gitmine/testutil"
)

func collectCommits(t *testing.T, iter *CommitIter) []*Commit {
	t.Helper()
	var out []*Commit
	for {
		c, ok := iter.Next()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// TestCommitPipeline_LinearHistory verifies one Commit is emitted per
// commit, newest first, each with zero or one parent and in_main = true.
func TestCommitPipeline_LinearHistory(t *testing.T) {
	repo := testutil.LinearHistory(t, 3)
	driver, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	iter, err := NewCommitPipeline(driver, false).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer iter.Close()

	commits := collectCommits(t, iter)
	if len(commits) != 3 {
		t.Fatalf("got %d commits, want 3", len(commits))
	}
	for _, c := range commits {
		if !c.InMain {
			t.Errorf("commit %s: InMain = false on linear default-branch history", c.Hash)
		}
		if c.IsMerge {
			t.Errorf("commit %s: IsMerge = true on linear history", c.Hash)
		}
	}
	root := commits[len(commits)-1]
	if len(root.Parents) != 0 {
		t.Errorf("root commit %s has parents %v, want none", root.Hash, root.Parents)
	}
	if len(iter.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", iter.Warnings())
	}
}

// TestCommitPipeline_DiamondMerge verifies the merge commit is tagged
// IsMerge with two parents and, having been made on the default branch, is
// part of in_main.
func TestCommitPipeline_DiamondMerge(t *testing.T) {
	repo := testutil.DiamondMerge(t)
	driver, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	iter, err := NewCommitPipeline(driver, false).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer iter.Close()

	var merge *Commit
	for _, c := range collectCommits(t, iter) {
		if c.IsMerge {
			merge = c
		}
	}
	if merge == nil {
		t.Fatal("no merge commit found")
	}
	if len(merge.Parents) != 2 {
		t.Errorf("merge commit has %d parents, want 2", len(merge.Parents))
	}
	if !merge.InMain {
		t.Error("merge commit InMain = false, want true (it was merged to the default branch)")
	}
}

// TestCommitPipeline_Shortstat verifies shortstat fields are populated only
// when requested.
func TestCommitPipeline_Shortstat(t *testing.T) {
	repo := testutil.LinearHistory(t, 2)
	driver, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	iter, err := NewCommitPipeline(driver, true).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer iter.Close()

	for _, c := range collectCommits(t, iter) {
		if c.FilesChanged == nil || c.LinesAdded == nil || c.LinesDeleted == nil {
			t.Fatalf("commit %s: shortstat fields nil despite shortstat=true", c.Hash)
		}
		if *c.FilesChanged != 1 {
			t.Errorf("commit %s: FilesChanged = %d, want 1", c.Hash, *c.FilesChanged)
		}
	}
}

// TestCommitPipeline_NoShortstatOmitsFields verifies shortstat fields stay
// nil (and so are omitted from JSON) when shortstat is disabled.
func TestCommitPipeline_NoShortstatOmitsFields(t *testing.T) {
	repo := testutil.LinearHistory(t, 1)
	driver, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}

	iter, err := NewCommitPipeline(driver, false).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer iter.Close()

	commits := collectCommits(t, iter)
	if len(commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(commits))
	}
	if commits[0].FilesChanged != nil {
		t.Error("FilesChanged non-nil without shortstat requested")
	}
}

// TestCommitPipeline_MultilineSubject verifies message_subject/body split on
// the first blank line using the raw body, trimmed of surrounding
// whitespace.
func TestCommitPipeline_MultilineSubject(t *testing.T) {
	repo := testutil.NewTestRepo(t)
	repo.WriteFile("a.txt", "content")
	repo.StageFile("a.txt")
	// git commit -F- style multi-paragraph message via testutil.Commit's
	// single-string msg argument (newline embedded directly).
	repo.Commit("Subject line\n\nBody paragraph one.\nBody paragraph two.", nil)

	driver, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	iter, err := NewCommitPipeline(driver, false).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer iter.Close()

	commits := collectCommits(t, iter)
	if len(commits) != 1 {
		t.Fatalf("got %d commits, want 1", len(commits))
	}
	if commits[0].MessageSubject != "Subject line" {
		t.Errorf("MessageSubject = %q, want %q", commits[0].MessageSubject, "Subject line")
	}
	if commits[0].MessageBody != "Body paragraph one.\nBody paragraph two." {
		t.Errorf("MessageBody = %q", commits[0].MessageBody)
	}
}

// TestCommitPipeline_RootCommitHasNoParents verifies a freshly created
// commit has an empty parents slice.
func TestCommitPipeline_RootCommitHasNoParents(t *testing.T) {
	repo := testutil.RootCommit(t)
	repo.Commit("only commit", map[string]string{"file.txt": "x"})

	driver, err := NewDriver(context.Background(), repo.Dir)
	if err != nil {
		t.Fatalf("NewDriver: %v", err)
	}
	iter, err := NewCommitPipeline(driver, false).Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	defer iter.Close()

	commits := collectCommits(t, iter)
	if len(commits) != 1 || len(commits[0].Parents) != 0 {
		t.Fatalf("got commits %+v, want a single parentless commit", commits)
	}
}
