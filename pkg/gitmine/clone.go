package gitmine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
)

// CloneTagPrefix names every temporary clone directory CloneManager creates.
// The residual-cleanup sweep (CleanResidual) matches on this exact prefix.
const CloneTagPrefix = "gitmine_clone_"

// CloneManager materializes a scoped working copy from a URL or local file
// URI and guarantees its cleanup. Shallow ("blobs=false") clones are bare
// and blob-filtered: metadata only, no file contents, which disables any
// pipeline that needs file bodies (FileModPipeline, DiffPipeline).
type CloneManager struct {
	Source  string
	Shallow bool

	dir    string
	driver *Driver
}

// NewCloneManager constructs a CloneManager for the given source location.
func NewCloneManager(source string, shallow bool) *CloneManager {
	return &CloneManager{Source: source, Shallow: shallow}
}

// Enter materializes the clone: a uniquely-named temp directory tagged with
// CloneTagPrefix, followed by `git clone` (bare + blob:none when shallow).
// It returns a Driver rooted at the new clone for pipelines to use.
func (c *CloneManager) Enter(ctx context.Context) (*Driver, error) {
	dir := filepath.Join(os.TempDir(), CloneTagPrefix+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return nil, fmt.Errorf("gitmine: creating clone directory: %w", err)
	}

	driver, err := NewDriver(ctx, dir)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	args := []string{"clone"}
	if c.Shallow {
		args = append(args, "--bare", "--filter=blob:none")
	}
	args = append(args, c.Source, ".")
	if err := driver.RunSilent(ctx, args...); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	c.dir = dir
	c.driver = driver
	return driver, nil
}

// Dir returns the clone's working directory. Empty before Enter succeeds.
func (c *CloneManager) Dir() string {
	return c.dir
}

// Exit recursively removes the clone directory. On Windows, git marks pack
// files under .git/objects read-only; those bits are cleared first so
// RemoveAll doesn't fail partway through.
func (c *CloneManager) Exit() error {
	if c.dir == "" {
		return nil
	}
	if runtime.GOOS == "windows" {
		clearReadOnly(c.dir)
	}
	err := os.RemoveAll(c.dir)
	c.dir = ""
	c.driver = nil
	return err
}

func clearReadOnly(root string) {
	_ = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info == nil {
			return nil
		}
		_ = os.Chmod(path, info.Mode()|0o200)
		return nil
	})
}
