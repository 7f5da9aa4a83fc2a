package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/diffhouse/diffhouse/internal/testutil"
)

func TestConfig_YAMLRoundTrip(t *testing.T) {
	testutil.AssertYAMLRoundTrip(t, Config{
		Location: "https://example.com/org/repo.git",
		Blobs:    true,
		Verbose:  true,
		Shallow:  false,
	})
}

func TestConfig_OmitsEmptyLocation(t *testing.T) {
	testutil.AssertYAMLOmitsField(t, Config{}, "location")
}

func TestConfig_ContainsNonEmptyLocation(t *testing.T) {
	testutil.AssertYAMLContainsField(t, Config{Location: "/repo"}, "location")
}

func TestStore_SaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	store := NewStore[Config](dir, FileName, true)

	want := Config{Location: "/repo", Blobs: true, Shallow: true}
	testutil.AssertNoError(t, store.Save(want), "Save")

	got, err := store.Load()
	testutil.AssertNoError(t, err, "Load")
	testutil.AssertEqual(t, got, want, "round-tripped config")
}

func TestStore_LoadMissingFileAllowed(t *testing.T) {
	dir := t.TempDir()
	store := NewStore[Config](dir, FileName, true)

	got, err := store.Load()
	testutil.AssertNoError(t, err, "Load of missing file")
	testutil.AssertEqual(t, got, Config{}, "zero value for missing file")
}

func TestStore_LoadMissingFileDisallowed(t *testing.T) {
	dir := t.TempDir()
	store := NewStore[Config](dir, FileName, false)

	_, err := store.Load()
	testutil.AssertError(t, err, "Load of missing file with allowMissing=false")
}

func TestStore_LoadInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, FileName), []byte("blobs: [not, a, bool]"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	store := NewStore[Config](dir, FileName, true)
	_, err := store.Load()
	testutil.AssertError(t, err, "Load of invalid YAML")
}

func TestStore_Path(t *testing.T) {
	store := NewStore[Config]("/tmp/repo", FileName, true)
	testutil.AssertEqual(t, store.Path(), filepath.Join("/tmp/repo", FileName), "Path")
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	testutil.AssertNoError(t, err, "Load")
	testutil.AssertEqual(t, cfg, Config{}, "zero value for missing .diffhouse.yml")
}

func TestLoad_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore[Config](dir, FileName, true)
	want := Config{Location: "/repo", Verbose: true}
	testutil.AssertNoError(t, store.Save(want), "Save")

	got, err := Load(dir)
	testutil.AssertNoError(t, err, "Load")
	testutil.AssertEqual(t, got, want, "Load result")
}
