package gitmine

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
)

// state is RepoFacade's lifecycle position.
type state int

const (
	stateConstructed state = iota
	stateActive
	stateDisposed
)

// Config is a RepoFacade's construction-time configuration. Location is a
// URL if it parses as one, otherwise resolved to a local file URI relative
// to the working directory. Blobs=false produces a bare, blob-filtered
// clone: cheaper and faster, but FileMods and Diffs become unavailable.
type Config struct {
	Location string
	Blobs    bool
	Verbose  bool
}

// RepoFacade is a lifecycle-gated wrapper exposing all five pipelines over
// one scoped clone. It moves constructed -> active -> disposed exactly
// once; there is no re-entry.
type RepoFacade struct {
	cfg   Config
	state state

	clone  *CloneManager
	driver *Driver
}

// NewRepoFacade constructs a RepoFacade in the constructed state. Nothing
// touches the filesystem or spawns git until Enter.
func NewRepoFacade(cfg Config) *RepoFacade {
	return &RepoFacade{cfg: cfg, state: stateConstructed}
}

// Enter materializes the scoped clone and moves the facade to active. It
// may be called at most once; a second call returns a NotClonedError since
// there is no notion of re-entering an already-active or disposed facade.
func (f *RepoFacade) Enter(ctx context.Context) error {
	if f.state != stateConstructed {
		return &NotClonedError{Operation: "enter"}
	}

	location, err := resolveLocation(f.cfg.Location)
	if err != nil {
		return err
	}

	clone := NewCloneManager(location, !f.cfg.Blobs)
	driver, err := clone.Enter(ctx)
	if err != nil {
		return err
	}
	driver.Verbose = f.cfg.Verbose

	// ls-remote runs inside the clone directory, so Branches and Tags need
	// the resolved location, not a path relative to the caller's directory.
	f.cfg.Location = location
	f.clone = clone
	f.driver = driver
	f.state = stateActive
	return nil
}

// Exit tears down the scoped clone and moves the facade to disposed. It is
// safe to call from any state; calling it when not active is a no-op.
func (f *RepoFacade) Exit() error {
	if f.state != stateActive {
		return nil
	}
	err := f.clone.Exit()
	f.driver = nil
	f.state = stateDisposed
	return err
}

// Dir returns the scoped clone's working directory. Requires the active
// state.
func (f *RepoFacade) Dir() (string, error) {
	if err := f.requireActive("clone"); err != nil {
		return "", err
	}
	return f.clone.Dir(), nil
}

// Branches lists the remote's branch refs. Requires the active state.
func (f *RepoFacade) Branches(ctx context.Context) ([]Branch, error) {
	if err := f.requireActive("branches"); err != nil {
		return nil, err
	}
	return f.driver.Branches(ctx, f.cfg.Location)
}

// Tags lists the remote's tag refs. Requires the active state.
func (f *RepoFacade) Tags(ctx context.Context) ([]Tag, error) {
	if err := f.requireActive("tags"); err != nil {
		return nil, err
	}
	return f.driver.Tags(ctx, f.cfg.Location)
}

// Commits returns a streaming commit iterator. Requires the active state.
func (f *RepoFacade) Commits(ctx context.Context, shortstat bool) (*CommitIter, error) {
	if err := f.requireActive("commits"); err != nil {
		return nil, err
	}
	iter, err := NewCommitPipeline(f.driver, shortstat).Extract(ctx)
	if err != nil {
		return nil, err
	}
	return iter, nil
}

// FileMods returns a streaming file-modification iterator. Requires the
// active state and Config.Blobs = true.
func (f *RepoFacade) FileMods(ctx context.Context) (*FileModIter, error) {
	if err := f.requireActive("filemods"); err != nil {
		return nil, err
	}
	if err := f.requireBlobs("filemods"); err != nil {
		return nil, err
	}
	return NewFileModPipeline(f.driver).Extract(ctx)
}

// Diffs returns a streaming hunk-diff iterator. Requires the active state
// and Config.Blobs = true.
func (f *RepoFacade) Diffs(ctx context.Context) (*DiffIter, error) {
	if err := f.requireActive("diffs"); err != nil {
		return nil, err
	}
	if err := f.requireBlobs("diffs"); err != nil {
		return nil, err
	}
	return NewDiffPipeline(f.driver).Extract(ctx)
}

func (f *RepoFacade) requireActive(op string) error {
	if f.state != stateActive {
		return &NotClonedError{Operation: op}
	}
	return nil
}

func (f *RepoFacade) requireBlobs(op string) error {
	if !f.cfg.Blobs {
		return &FilterError{Operation: op}
	}
	return nil
}

// resolveLocation returns loc unchanged when it parses as an absolute URL
// (has a scheme, e.g. "https://", "git@"-style SCP syntax is left as-is
// since git itself understands it natively); otherwise it resolves loc to
// an absolute path and returns a file:// URI.
func resolveLocation(loc string) (string, error) {
	if u, err := url.Parse(loc); err == nil && u.Scheme != "" {
		return loc, nil
	}
	abs, err := filepath.Abs(loc)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(abs); err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}
