package gitmine

import (
	"context"
	"regexp"
)

// Branch is a remote branch name.
type Branch struct {
	Name string `json:"name"`
}

// Tag is a remote tag name.
type Tag struct {
	Name string `json:"name"`
}

var refLineRgx = regexp.MustCompile(`^[0-9a-f]+\trefs/(heads|tags)/(.+)$`)

// Branches runs `ls-remote --refs --branches` (or --heads on older git)
// against source and returns one Branch per line.
func (d *Driver) Branches(ctx context.Context, source string) ([]Branch, error) {
	lines, err := d.LsRemote(ctx, source, "branches")
	if err != nil {
		return nil, err
	}
	var out []Branch
	for _, line := range lines {
		m := refLineRgx.FindStringSubmatch(line)
		if m == nil || m[1] != "heads" {
			continue
		}
		out = append(out, Branch{Name: m[2]})
	}
	return out, nil
}

// Tags runs `ls-remote --refs --tags` against source and returns one Tag
// per line.
func (d *Driver) Tags(ctx context.Context, source string) ([]Tag, error) {
	lines, err := d.LsRemote(ctx, source, "tags")
	if err != nil {
		return nil, err
	}
	var out []Tag
	for _, line := range lines {
		m := refLineRgx.FindStringSubmatch(line)
		if m == nil || m[1] != "tags" {
			continue
		}
		out = append(out, Tag{Name: m[2]})
	}
	return out, nil
}
