package gitmine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/diffhouse/gitmine/testutil"
)

// TestCloneManager_EnterExit verifies a full clone cycle: Enter materializes
// a working driver over a tagged temp directory, Exit removes it entirely.
func TestCloneManager_EnterExit(t *testing.T) {
	repo := testutil.LinearHistory(t, 2)
	cm := NewCloneManager(repo.Dir, false)

	driver, err := cm.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(cm.Dir()), CloneTagPrefix) {
		t.Errorf("clone dir %q does not carry prefix %q", cm.Dir(), CloneTagPrefix)
	}
	if _, err := os.Stat(filepath.Join(driver.Dir, ".git")); err != nil {
		t.Errorf(".git missing in non-shallow clone: %v", err)
	}

	dir := cm.Dir()
	if err := cm.Exit(); err != nil {
		t.Fatalf("Exit: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("clone directory %q still exists after Exit", dir)
	}
}

// TestCloneManager_ShallowIsBare verifies a shallow (blobs=false) clone
// produces a bare, blob-filtered repository.
func TestCloneManager_ShallowIsBare(t *testing.T) {
	repo := testutil.LinearHistory(t, 2)
	cm := NewCloneManager(repo.Dir, true)

	driver, err := cm.Enter(context.Background())
	if err != nil {
		t.Fatalf("Enter: %v", err)
	}
	defer cm.Exit()

	if _, err := os.Stat(filepath.Join(driver.Dir, ".git")); !os.IsNotExist(err) {
		t.Errorf("expected bare clone (no .git subdirectory), got err=%v", err)
	}
	if _, err := os.Stat(filepath.Join(driver.Dir, "HEAD")); err != nil {
		t.Errorf("expected bare repo HEAD file: %v", err)
	}
}

// TestCloneManager_ExitBeforeEnter verifies Exit is a safe no-op when Enter
// was never called.
func TestCloneManager_ExitBeforeEnter(t *testing.T) {
	cm := NewCloneManager("/does/not/matter", false)
	if err := cm.Exit(); err != nil {
		t.Fatalf("Exit before Enter: %v", err)
	}
}

// TestCloneManager_EnterInvalidSource verifies Enter fails on a nonexistent
// source and leaves the manager with no clone directory recorded.
func TestCloneManager_EnterInvalidSource(t *testing.T) {
	cm := NewCloneManager("/no/such/source/repo", false)
	if _, err := cm.Enter(context.Background()); err == nil {
		t.Fatal("expected error cloning a nonexistent source, got nil")
	}
	if cm.Dir() != "" {
		t.Errorf("Dir() = %q after failed Enter, want empty", cm.Dir())
	}
}

// TestCleanResidual_RemovesTaggedDirs verifies the residual sweep removes a
// directory carrying CloneTagPrefix, counts it, and reports no warnings.
func TestCleanResidual_RemovesTaggedDirs(t *testing.T) {
	leftover := filepath.Join(os.TempDir(), CloneTagPrefix+"leaktest")
	if err := os.Mkdir(leftover, 0o755); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(filepath.Join(leftover, "marker"), []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	removed, warnings := CleanResidual()
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if removed < 1 {
		t.Errorf("removed = %d, want at least 1", removed)
	}
	if _, err := os.Stat(leftover); !os.IsNotExist(err) {
		t.Errorf("leftover clone directory %q was not removed", leftover)
	}
}
