package gitmine

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"
)

// MinGitVersion is the earliest git release this package supports: old
// enough to have clone --filter=blob:none, log --all -p -U0, and
// ls-remote --refs.
const MinGitVersion = "2.19.0"

// lsRemoteBranchesMinVersion is the release that introduced `--branches` as
// an alias for `--heads` in ls-remote --refs. Driver.LsRemote substitutes
// --heads transparently below this version.
const lsRemoteBranchesMinVersion = "2.46.0"

// Driver wraps invocation of the git binary in a single working directory.
// Construction probes and caches the installed version; every other method
// assumes that probe already succeeded.
type Driver struct {
	Dir     string
	Verbose bool

	version string // semver-normalized, e.g. "v2.43.0"
}

// NewDriver constructs a Driver rooted at dir. It fails with an
// EnvironmentError if git is missing from PATH or older than MinGitVersion,
// and with a plain error if dir does not exist or is not a directory.
func NewDriver(ctx context.Context, dir string) (*Driver, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("gitmine: working directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("gitmine: %q is not a directory", dir)
	}

	if _, err := exec.LookPath("git"); err != nil {
		return nil, &EnvironmentError{}
	}

	d := &Driver{Dir: dir}
	version, err := d.probeVersion(ctx)
	if err != nil {
		return nil, err
	}
	if semver.Compare(version, "v"+MinGitVersion) < 0 {
		return nil, &EnvironmentError{Installed: strings.TrimPrefix(version, "v"), Minimum: MinGitVersion}
	}
	d.version = version
	return d, nil
}

// Version returns the cached, semver-normalized installed git version
// (e.g. "v2.43.0").
func (d *Driver) Version() string {
	return d.version
}

func (d *Driver) probeVersion(ctx context.Context) (string, error) {
	out, err := d.runCaptured(ctx, "--version")
	if err != nil {
		return "", err
	}
	// "git version 2.43.0" or "git version 2.43.0.windows.1"
	fields := strings.Fields(out)
	if len(fields) < 3 {
		return "", fmt.Errorf("gitmine: unrecognized git --version output: %q", out)
	}
	raw := fields[2]
	// Trim any vendor suffix (".windows.1", ".apple") past the third
	// dot-separated component so semver.IsValid accepts it.
	parts := strings.SplitN(raw, ".", 4)
	if len(parts) > 3 {
		raw = strings.Join(parts[:3], ".")
	}
	v := "v" + raw
	if !semver.IsValid(v) {
		return "", fmt.Errorf("gitmine: unparseable git version %q", raw)
	}
	return v, nil
}

// Stream is a scoped handle on the spool file backing a Driver.Run
// invocation. Close must be called exactly once; it deletes the spool file
// regardless of how much of the stream was consumed.
type Stream struct {
	f *os.File
}

func (s *Stream) Read(p []byte) (int, error) {
	return s.f.Read(p)
}

// Close closes and removes the underlying spool file.
func (s *Stream) Close() error {
	name := s.f.Name()
	cerr := s.f.Close()
	rerr := os.Remove(name)
	if cerr != nil {
		return cerr
	}
	if rerr != nil && !os.IsNotExist(rerr) {
		return rerr
	}
	return nil
}

// Run spawns git with the given arguments, streaming its stdout into a
// temporary spool file, and returns a Stream over that spool. stderr is
// captured to memory and used to build a GitError on non-zero exit.
// The spool is deleted on every exit path, including errors raised before
// a Stream is ever returned to the caller.
func (d *Driver) Run(ctx context.Context, args ...string) (*Stream, error) {
	if d.Verbose {
		fmt.Fprintf(os.Stderr, "[gitmine] git %s (in %s)\n", strings.Join(args, " "), d.Dir)
	}

	spool, err := os.CreateTemp("", "gitmine_spool_*")
	if err != nil {
		return nil, fmt.Errorf("gitmine: creating spool file: %w", err)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.Dir
	cmd.Env = sanitizedEnv()
	cmd.Stdout = spool
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	if runErr != nil {
		spool.Close()
		os.Remove(spool.Name())
		if _, ok := runErr.(*exec.Error); ok {
			return nil, &EnvironmentError{}
		}
		return nil, &GitError{Args: args, Stderr: stderr.String(), Err: runErr}
	}

	if _, err := spool.Seek(0, io.SeekStart); err != nil {
		spool.Close()
		os.Remove(spool.Name())
		return nil, fmt.Errorf("gitmine: rewinding spool: %w", err)
	}
	return &Stream{f: spool}, nil
}

// RunSilent runs git and discards stdout, keeping only the exit status and
// stderr (attached to a GitError on failure). Used for invocations whose
// output gitmine doesn't care about, such as clone and checkout.
func (d *Driver) RunSilent(ctx context.Context, args ...string) error {
	if d.Verbose {
		fmt.Fprintf(os.Stderr, "[gitmine] git %s (in %s)\n", strings.Join(args, " "), d.Dir)
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.Dir
	cmd.Env = sanitizedEnv()
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.Error); ok {
			return &EnvironmentError{}
		}
		return &GitError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return nil
}

// runCaptured runs git and slurps stdout as a trimmed string, for outputs
// small enough not to need spooling (version probes, ls-remote).
func (d *Driver) runCaptured(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = d.Dir
	cmd.Env = sanitizedEnv()
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.Error); ok {
			return "", &EnvironmentError{}
		}
		return "", &GitError{Args: args, Stderr: stderr.String(), Err: err}
	}
	return strings.TrimRight(stdout.String(), " \t\r\n"), nil
}

// LsRemote wraps `ls-remote --refs --<kind>` where kind is "branches" or
// "tags". When the installed git predates the --branches alias, it
// transparently substitutes --heads. Output is small enough to slurp.
func (d *Driver) LsRemote(ctx context.Context, source, kind string) ([]string, error) {
	flag := "--" + kind
	if kind == "branches" && semver.Compare(d.version, "v"+lsRemoteBranchesMinVersion) < 0 {
		flag = "--heads"
	}
	out, err := d.runCaptured(ctx, "ls-remote", "--refs", flag, source)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// sanitizedEnv returns os.Environ() with git hook-context variables removed,
// so a gitmine invocation running inside an outer git hook (pre-commit,
// post-merge) is never redirected at the wrong repository.
func sanitizedEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		key := strings.SplitN(e, "=", 2)[0]
		switch strings.ToUpper(key) {
		case "GIT_DIR", "GIT_INDEX_FILE", "GIT_WORK_TREE",
			"GIT_OBJECT_DIRECTORY", "GIT_ALTERNATE_OBJECT_DIRECTORIES":
			continue
		}
		env = append(env, e)
	}
	return env
}
