package gitmine

import (
	"context"
	"regexp"
	"strconv"
	"strings"
)

// Diff is one hunk of a unified diff.
type Diff struct {
	CommitHash string `json:"commit_hash"`
	PathA      string `json:"path_a"`
	PathB      string `json:"path_b"`
	FilemodID  string `json:"filemod_id"`

	StartA  int `json:"start_a"`
	LengthA int `json:"length_a"`
	StartB  int `json:"start_b"`
	LengthB int `json:"length_b"`

	LinesAdded   int      `json:"lines_added"`
	LinesDeleted int      `json:"lines_deleted"`
	Additions    []string `json:"additions"`
	Deletions    []string `json:"deletions"`
}

var fileSepRgx = regexp.MustCompile(`(?m)^diff --git`)
var pathHeaderRgx = regexp.MustCompile(`"?a/(.+?)"? "?b/(.+)"?$`)
var hunkHeaderRgx = regexp.MustCompile(`(?m)^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// DiffPipeline parses `git log --all -p -U0` into per-hunk Diff records.
// Zero lines of context keeps every emitted line actual signal: every '+'
// or '-' line is real addition/deletion text, never surrounding context.
type DiffPipeline struct {
	driver *Driver
}

// NewDiffPipeline constructs a DiffPipeline over driver.
func NewDiffPipeline(driver *Driver) *DiffPipeline {
	return &DiffPipeline{driver: driver}
}

// Extract returns a streaming iterator over Diff records.
func (p *DiffPipeline) Extract(ctx context.Context) (*DiffIter, error) {
	stream, err := p.driver.Run(ctx, "log", "--all", "-p", "-U0", "--pretty=format:"+recordSeparator+"%H")
	if err != nil {
		return nil, err
	}
	return &DiffIter{
		stream:   stream,
		splitter: NewSplitter(stream, recordSeparator, diffChunkSize),
		first:    true,
	}, nil
}

// DiffIter is a pull-style, single-pass iterator over Diff records. A
// single commit record can unpack into many Diffs (one per hunk across
// every changed file), so they are queued and drained before the next
// commit record is read.
type DiffIter struct {
	stream   *Stream
	splitter *Splitter
	first    bool
	pending  []*Diff
	warnings []*ParserWarning
}

// Next returns the next Diff, or (nil, false) once exhausted.
func (it *DiffIter) Next() (*Diff, bool) {
	for {
		if len(it.pending) > 0 {
			d := it.pending[0]
			it.pending = it.pending[1:]
			return d, true
		}

		rec, ok := it.splitter.Next()
		if !ok {
			return nil, false
		}
		if it.first {
			it.first = false
			continue
		}

		diffs := parseDiffRecord(rec, &it.warnings)
		it.pending = diffs
	}
}

// Warnings returns every ParserWarning accumulated so far.
func (it *DiffIter) Warnings() []*ParserWarning {
	return it.warnings
}

// Close releases the underlying git subprocess spool.
func (it *DiffIter) Close() error {
	return it.stream.Close()
}

// parseDiffRecord splits one commit's -p -U0 body into per-file pieces and
// each piece into per-hunk Diffs. A commit that touches no files (empty
// body) yields nothing and is not a warning: it's a valid boundary case.
func parseDiffRecord(rec string, warnings *[]*ParserWarning) []*Diff {
	hash, body := splitFirstLine(rec)
	if strings.TrimSpace(body) == "" {
		return nil
	}

	pieces := fileSepRgx.Split(body, -1)
	if len(pieces) < 2 {
		return nil
	}
	pieces = pieces[1:] // drop header noise before the first "diff --git"

	var out []*Diff
	for _, piece := range pieces {
		diffs, err := parseFilePiece(hash, piece)
		if err != nil {
			*warnings = append(*warnings, &ParserWarning{Pipeline: "diff", Reason: err.Error(), Record: piece})
			continue
		}
		out = append(out, diffs...)
	}
	return out
}

func splitFirstLine(s string) (first, rest string) {
	idx := strings.IndexByte(s, '\n')
	if idx < 0 {
		return strings.TrimSpace(s), ""
	}
	return strings.TrimSpace(s[:idx]), s[idx+1:]
}

// parseFilePiece parses one "diff --git"-delimited piece (the leading
// "diff --git" text itself already stripped by fileSepRgx.Split) into its
// hunks.
func parseFilePiece(hash, piece string) ([]*Diff, error) {
	header, remainder := splitFirstLine(piece)

	m := pathHeaderRgx.FindStringSubmatch(header)
	if m == nil {
		return nil, errMalformedRecord("diff", 0)
	}
	pathA, pathB := m[1], m[2]
	filemodID := HashKey(hash, pathA, pathB)

	matches := hunkHeaderRgx.FindAllStringSubmatchIndex(remainder, -1)
	var diffs []*Diff
	for i, m := range matches {
		startA := atoiDefault(remainder, m[2], m[3], 0)
		lengthA := atoiDefault(remainder, m[4], m[5], 1)
		startB := atoiDefault(remainder, m[6], m[7], 0)
		lengthB := atoiDefault(remainder, m[8], m[9], 1)

		contentStart := m[1]
		contentEnd := len(remainder)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		content := strings.TrimPrefix(remainder[contentStart:contentEnd], "\n")

		additions, deletions := scanHunkLines(content)

		diffs = append(diffs, &Diff{
			CommitHash:   hash,
			PathA:        pathA,
			PathB:        pathB,
			FilemodID:    filemodID,
			StartA:       startA,
			LengthA:      lengthA,
			StartB:       startB,
			LengthB:      lengthB,
			LinesAdded:   len(additions),
			LinesDeleted: len(deletions),
			Additions:    additions,
			Deletions:    deletions,
		})
	}
	return diffs, nil
}

// atoiDefault reads the capture group at [start,end) in s, returning def
// when the group did not participate in the match (Git omits a hunk's
// count when it equals 1).
func atoiDefault(s string, start, end, def int) int {
	if start < 0 || end < 0 {
		return def
	}
	n, err := strconv.Atoi(s[start:end])
	if err != nil {
		return def
	}
	return n
}

// scanHunkLines splits a hunk's body into additions and deletions, each
// stripped of its leading '+'/'-' marker. Any other line (binary markers,
// "\ No newline at end of file") is ignored.
func scanHunkLines(content string) (additions, deletions []string) {
	if content == "" {
		return nil, nil
	}
	lines := strings.Split(content, "\n")
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		switch {
		case strings.HasPrefix(line, "+"):
			additions = append(additions, line[1:])
		case strings.HasPrefix(line, "-"):
			deletions = append(deletions, line[1:])
		}
	}
	return additions, deletions
}
