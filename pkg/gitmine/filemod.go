package gitmine

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// FileMod is one (commit, file-path-pair) modification, joined from two
// independent `git log` passes on the synthetic filemod_id.
type FileMod struct {
	CommitHash   string `json:"commit_hash"`
	PathA        string `json:"path_a"`
	PathB        string `json:"path_b"`
	FilemodID    string `json:"filemod_id"`
	ChangeType   string `json:"change_type"`
	Similarity   int    `json:"similarity"`
	LinesAdded   int    `json:"lines_added"`
	LinesDeleted int    `json:"lines_deleted"`
}

// FileModPipeline produces one FileMod per (commit, file-path-pair) by
// joining a numstat pass (line counts, ambiguous rename paths) against a
// name-status pass (change type, similarity, unambiguous rename paths) on
// filemod_id. Git can't emit both in one streaming mode, so the numstat
// side is fully materialized first; see design note 9 for why a
// line-by-line concurrent join is unsafe.
type FileModPipeline struct {
	driver *Driver
}

// NewFileModPipeline constructs a FileModPipeline over driver.
func NewFileModPipeline(driver *Driver) *FileModPipeline {
	return &FileModPipeline{driver: driver}
}

type numstatCounts struct {
	added, deleted int
}

// Extract builds the numstat index (bounded by total file modifications in
// the repository) and returns a streaming iterator over the name-status
// pass, joined against that index.
func (p *FileModPipeline) Extract(ctx context.Context) (*FileModIter, error) {
	index, warnings, err := p.buildNumstatIndex(ctx)
	if err != nil {
		return nil, err
	}

	stream, err := p.driver.Run(ctx, "log", "--all", "--name-status", "--pretty=format:"+recordSeparator+"%H")
	if err != nil {
		return nil, err
	}

	return &FileModIter{
		stream:   stream,
		splitter: NewSplitter(stream, recordSeparator, metaChunkSize),
		index:    index,
		first:    true,
		warnings: warnings,
	}, nil
}

// buildNumstatIndex runs the numstat pass to completion and returns a map
// from filemod_id to that file modification's line counts.
func (p *FileModPipeline) buildNumstatIndex(ctx context.Context) (map[string]numstatCounts, []*ParserWarning, error) {
	stream, err := p.driver.Run(ctx, "log", "--all", "--numstat", "--pretty=format:"+recordSeparator+"%H")
	if err != nil {
		return nil, nil, err
	}
	defer stream.Close()

	splitter := NewSplitter(stream, recordSeparator, metaChunkSize)
	index := make(map[string]numstatCounts)
	var warnings []*ParserWarning

	first := true
	for {
		rec, ok := splitter.Next()
		if !ok {
			break
		}
		if first {
			first = false
			continue
		}
		lines := strings.Split(rec, "\n")
		if len(lines) == 0 {
			continue
		}
		hash := strings.TrimSpace(lines[0])
		for _, line := range lines[1:] {
			line = strings.TrimRight(line, "\r")
			if line == "" {
				continue
			}
			fields := strings.SplitN(line, "\t", 3)
			if len(fields) != 3 {
				warnings = append(warnings, &ParserWarning{Pipeline: "filemod", Reason: "malformed numstat line", Record: line})
				continue
			}
			added := parseNumstatCount(fields[0])
			deleted := parseNumstatCount(fields[1])
			pathA, pathB := normalizeNumstatPath(fields[2])
			id := HashKey(hash, pathA, pathB)
			index[id] = numstatCounts{added: added, deleted: deleted}
		}
	}
	return index, warnings, nil
}

func parseNumstatCount(s string) int {
	if s == "-" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

var numstatBraceRgx = regexp.MustCompile(`\{(.*) => (.*)\}`)
var collapseSlashRgx = regexp.MustCompile(`/{2,}`)

// normalizeNumstatPath turns a numstat path expression — brace-rewrite form
// (`foo/{a => b}/baz`, `foo/{ => b}/baz`) or arrow form (`a/x => b/y`) — into
// (path_a, path_b). The `' => '` separator is technically legal inside a
// POSIX filename; the first occurrence is accepted as the separator (design
// note 9(b) — do not "fix" this without a schema-carrying test).
func normalizeNumstatPath(expr string) (pathA, pathB string) {
	if m := numstatBraceRgx.FindStringSubmatchIndex(expr); m != nil {
		whole := expr[m[0]:m[1]]
		left := expr[:m[0]] + expr[m[2]:m[3]] + expr[m[1]:]
		right := expr[:m[0]] + expr[m[4]:m[5]] + expr[m[1]:]
		_ = whole
		return collapseSlashRgx.ReplaceAllString(left, "/"), collapseSlashRgx.ReplaceAllString(right, "/")
	}
	if idx := strings.Index(expr, " => "); idx >= 0 {
		return expr[:idx], expr[idx+len(" => "):]
	}
	return expr, expr
}

// FileModIter is a pull-style, single-pass iterator over FileMod records.
// Iteration follows name-status order filtered to entries that joined
// against the numstat index; entries present only in name-status (Git
// occasionally reports these for malformed history or empty blobs) are
// skipped, not emitted as warnings — they are not malformed, just unjoinable.
type FileModIter struct {
	stream   *Stream
	splitter *Splitter
	index    map[string]numstatCounts
	first    bool
	warnings []*ParserWarning

	pendingHash  string
	pendingLines []string // remaining name-status lines of the record in progress
}

// Next returns the next FileMod, or (nil, false) once exhausted.
func (it *FileModIter) Next() (*FileMod, bool) {
	for {
		for len(it.pendingLines) > 0 {
			line := strings.TrimRight(it.pendingLines[0], "\r")
			it.pendingLines = it.pendingLines[1:]
			if line == "" {
				continue
			}
			if fm, ok := parseNameStatusLine(it.pendingHash, line, it.index); ok {
				return fm, true
			}
		}

		rec, ok := it.splitter.Next()
		if !ok {
			return nil, false
		}
		if it.first {
			it.first = false
			continue
		}
		lines := strings.Split(rec, "\n")
		if len(lines) == 0 {
			continue
		}
		it.pendingHash = strings.TrimSpace(lines[0])
		it.pendingLines = lines[1:]
	}
}

func parseNameStatusLine(hash, line string, index map[string]numstatCounts) (*FileMod, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) < 2 {
		return nil, false
	}
	status := fields[0]
	changeType := status[:1]

	var pathA, pathB string
	similarity := 100
	if (changeType == "R" || changeType == "C") && len(fields) >= 3 {
		if n, err := strconv.Atoi(status[1:]); err == nil {
			similarity = n
		}
		pathA, pathB = fields[1], fields[2]
	} else {
		pathA, pathB = fields[1], fields[1]
	}

	id := HashKey(hash, pathA, pathB)
	counts, ok := index[id]
	if !ok {
		return nil, false
	}

	return &FileMod{
		CommitHash:   hash,
		PathA:        pathA,
		PathB:        pathB,
		FilemodID:    id,
		ChangeType:   changeType,
		Similarity:   similarity,
		LinesAdded:   counts.added,
		LinesDeleted: counts.deleted,
	}, true
}

// Warnings returns every ParserWarning accumulated while building the
// numstat index.
func (it *FileModIter) Warnings() []*ParserWarning {
	return it.warnings
}

// Close releases the underlying git subprocess spool.
func (it *FileModIter) Close() error {
	return it.stream.Close()
}
