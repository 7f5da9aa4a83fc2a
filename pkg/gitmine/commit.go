package gitmine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// recordSeparator begins every record emitted by the metadata pretty-formats
// (CommitPipeline, FileModPipeline, DiffPipeline), so a leading empty record
// never needs special-casing beyond being skipped once.
const recordSeparator = "\x1e"

// metaChunkSize / diffChunkSize are the Splitter chunk sizes spec.md tunes
// per pipeline: small for metadata-only logs, large for -p diff bodies
// whose hunks can exceed 1 MB.
const (
	metaChunkSize = 10 * 1024
	diffChunkSize = 10 * 1024 * 1024
)

// commitPrettyFormat encodes ten metadata fields plus a trailing unit
// separator, so an optional --shortstat paragraph can be split off as the
// last field. %B (raw body) is used instead of %s/%b so a single newline
// inside a subject line survives.
const commitPrettyFormat = recordSeparator +
	"%H" + unitSeparator +
	"%an" + unitSeparator +
	"%ae" + unitSeparator +
	"%ad" + unitSeparator +
	"%cn" + unitSeparator +
	"%ce" + unitSeparator +
	"%cd" + unitSeparator +
	"%B" + unitSeparator +
	"%P" + unitSeparator +
	"%S" + unitSeparator

var refPrefixRgx = regexp.MustCompile(`^refs/(?:remotes/origin|tags|heads)/`)

var (
	shortstatFilesRgx      = regexp.MustCompile(`(\d+) file`)
	shortstatInsertionsRgx = regexp.MustCompile(`(\d+) insertion`)
	shortstatDeletionsRgx  = regexp.MustCompile(`(\d+) deletion`)
)

// Commit is one parsed `git log` record.
type Commit struct {
	Hash    string   `json:"commit_hash"`
	Parents []string `json:"parents"`
	IsMerge bool     `json:"is_merge"`
	Source  string   `json:"source"`
	InMain  bool     `json:"in_main"`

	AuthorName     string `json:"author_name"`
	AuthorEmail    string `json:"author_email"`
	CommitterName  string `json:"committer_name"`
	CommitterEmail string `json:"committer_email"`

	AuthorDate         Timestamp `json:"-"`
	CommitterDate      Timestamp `json:"-"`
	AuthorDateUTC      string    `json:"author_date"`
	AuthorDateLocal    string    `json:"author_date_local"`
	CommitterDateUTC   string    `json:"committer_date"`
	CommitterDateLocal string    `json:"committer_date_local"`

	MessageSubject string `json:"message_subject"`
	MessageBody    string `json:"message_body"`

	FilesChanged *int `json:"files_changed,omitempty"`
	LinesAdded   *int `json:"lines_added,omitempty"`
	LinesDeleted *int `json:"lines_deleted,omitempty"`
}

const gitTimeLayout = "2006-01-02 15:04:05"

func formatNaive(t interface{ Format(string) string }) string {
	return t.Format(gitTimeLayout)
}

// CommitPipeline parses `git log --all` into Commit records, optionally
// attaching shortstat summaries, and tags every record with default-branch
// reachability computed from a separate non---all traversal.
type CommitPipeline struct {
	driver    *Driver
	shortstat bool
}

// NewCommitPipeline constructs a CommitPipeline over driver. When shortstat
// is true, each Commit carries FilesChanged/LinesAdded/LinesDeleted.
func NewCommitPipeline(driver *Driver, shortstat bool) *CommitPipeline {
	return &CommitPipeline{driver: driver, shortstat: shortstat}
}

// CommitIter is a pull-style, single-pass, non-restartable iterator over
// Commit records. Malformed records are skipped and recorded as warnings
// rather than aborting the stream.
type CommitIter struct {
	stream    *Stream
	splitter  *Splitter
	mainSet   map[string]bool
	shortstat bool
	first     bool
	warnings  []*ParserWarning
}

// Next returns the next Commit, or (nil, false) once the stream is
// exhausted. Check Warnings afterward for any records that were skipped.
func (it *CommitIter) Next() (*Commit, bool) {
	for {
		rec, ok := it.splitter.Next()
		if !ok {
			return nil, false
		}
		if it.first {
			it.first = false
			continue // the prefix before the first record separator is always empty
		}
		c, err := parseCommitRecord(rec, it.mainSet, it.shortstat)
		if err != nil {
			it.warnings = append(it.warnings, &ParserWarning{Pipeline: "commit", Reason: err.Error(), Record: rec})
			continue
		}
		return c, true
	}
}

// Warnings returns every ParserWarning accumulated so far.
func (it *CommitIter) Warnings() []*ParserWarning {
	return it.warnings
}

// Close releases the underlying git subprocess spool.
func (it *CommitIter) Close() error {
	return it.stream.Close()
}

// Extract runs the default-branch traversal followed by the --all
// traversal and returns a streaming iterator over the latter.
func (p *CommitPipeline) Extract(ctx context.Context) (*CommitIter, error) {
	mainSet, err := p.loadMainSet(ctx)
	if err != nil {
		return nil, err
	}

	args := []string{"log", "--all", "--date=iso"}
	if p.shortstat {
		args = append(args, "--shortstat")
	}
	args = append(args, "--pretty=format:"+commitPrettyFormat)

	stream, err := p.driver.Run(ctx, args...)
	if err != nil {
		return nil, err
	}

	return &CommitIter{
		stream:    stream,
		splitter:  NewSplitter(stream, recordSeparator, metaChunkSize),
		mainSet:   mainSet,
		shortstat: p.shortstat,
		first:     true,
	}, nil
}

// loadMainSet walks the default branch (no --all) and returns its commit
// hashes as a set. This is the pipeline's only memory allocation
// proportional to history size.
func (p *CommitPipeline) loadMainSet(ctx context.Context) (map[string]bool, error) {
	stream, err := p.driver.Run(ctx, "log", "--pretty=format:%H")
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	buf := make([]byte, 0, 64*1024)
	chunk := make([]byte, 64*1024)
	for {
		n, err := stream.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}

	set := make(map[string]bool)
	for _, hash := range strings.Split(string(buf), "\n") {
		hash = strings.TrimSpace(hash)
		if hash != "" {
			set[hash] = true
		}
	}
	return set, nil
}

// parseCommitRecord parses one record (everything between two record
// separators) into a Commit.
func parseCommitRecord(rec string, mainSet map[string]bool, shortstat bool) (*Commit, error) {
	fields := strings.Split(rec, unitSeparator)
	if len(fields) < 11 {
		return nil, errMalformedRecord("commit", len(fields))
	}

	hash := fields[0]
	authorDate, err := ParseTimestamp(fields[3])
	if err != nil {
		return nil, err
	}
	committerDate, err := ParseTimestamp(fields[6])
	if err != nil {
		return nil, err
	}

	body := fields[7]
	subject, msgBody := splitSubjectBody(body)

	var parents []string
	if p := strings.TrimSpace(fields[8]); p != "" {
		parents = strings.Fields(p)
	}

	source := refPrefixRgx.ReplaceAllString(strings.TrimSpace(fields[9]), "")

	c := &Commit{
		Hash:                hash,
		Parents:             parents,
		IsMerge:             len(parents) > 1,
		Source:              source,
		InMain:              mainSet[hash],
		AuthorName:          fields[1],
		AuthorEmail:         fields[2],
		CommitterName:       fields[4],
		CommitterEmail:      fields[5],
		AuthorDate:          authorDate,
		CommitterDate:       committerDate,
		AuthorDateUTC:       formatNaive(authorDate.UTC),
		AuthorDateLocal:     formatNaive(authorDate.Local),
		CommitterDateUTC:    formatNaive(committerDate.UTC),
		CommitterDateLocal:  formatNaive(committerDate.Local),
		MessageSubject:      subject,
		MessageBody:         msgBody,
	}

	if shortstat {
		trailer := fields[10]
		files := regexMatchInt(shortstatFilesRgx, trailer)
		added := regexMatchInt(shortstatInsertionsRgx, trailer)
		deleted := regexMatchInt(shortstatDeletionsRgx, trailer)
		c.FilesChanged = &files
		c.LinesAdded = &added
		c.LinesDeleted = &deleted
	}

	return c, nil
}

// splitSubjectBody splits a raw commit body at the first blank line,
// trimming surrounding whitespace on both halves.
func splitSubjectBody(body string) (subject, rest string) {
	idx := strings.Index(body, "\n\n")
	if idx < 0 {
		return strings.TrimSpace(body), ""
	}
	return strings.TrimSpace(body[:idx]), strings.TrimSpace(body[idx+2:])
}

func regexMatchInt(rgx *regexp.Regexp, s string) int {
	m := rgx.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func errMalformedRecord(pipeline string, gotFields int) error {
	return fmt.Errorf("%s record has wrong field count: got %d", pipeline, gotFields)
}
