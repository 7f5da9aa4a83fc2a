package gitmine

import (
	"strings"
	"testing"
)

func drain(t *testing.T, s *Splitter) []string {
	t.Helper()
	var out []string
	for {
		rec, ok := s.Next()
		if !ok {
			break
		}
		out = append(out, rec)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Splitter.Err: %v", err)
	}
	return out
}

// TestSplitter_BasicSplit verifies a simple multi-record stream splits cleanly.
func TestSplitter_BasicSplit(t *testing.T) {
	s := NewSplitter(strings.NewReader("a\x1ebb\x1eccc"), "\x1e", 4)
	got := drain(t, s)
	want := []string{"a", "bb", "ccc"}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestSplitter_LeadingSentinel verifies a stream beginning with the
// separator yields an empty first record.
func TestSplitter_LeadingSentinel(t *testing.T) {
	s := NewSplitter(strings.NewReader("\x1efirst\x1esecond"), "\x1e", 4)
	got := drain(t, s)
	want := []string{"", "first", "second"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %q, want %q", i, got[i], want[i])
		}
	}
}

// TestSplitter_NoTrailingSeparator verifies the final buffered chunk is
// flushed as the last record when the stream doesn't end on a separator.
func TestSplitter_NoTrailingSeparator(t *testing.T) {
	s := NewSplitter(strings.NewReader("one\x1etwo"), "\x1e", 2)
	got := drain(t, s)
	want := []string{"one", "two"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestSplitter_EmptyStream verifies an empty stream yields no records.
func TestSplitter_EmptyStream(t *testing.T) {
	s := NewSplitter(strings.NewReader(""), "\x1e", 4)
	got := drain(t, s)
	if len(got) != 0 {
		t.Fatalf("got %v, want no records", got)
	}
}

// TestSplitter_SeparatorSpansChunkBoundary verifies a multi-byte separator
// straddling two reads is still matched correctly.
func TestSplitter_SeparatorSpansChunkBoundary(t *testing.T) {
	sep := "\x1e\x1f"
	input := "aa" + sep + "bb"
	s := NewSplitter(strings.NewReader(input), sep, 3) // chunk boundary lands mid-separator
	got := drain(t, s)
	want := []string{"aa", "bb"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestSplitter_Roundtrip verifies records joined by the separator reproduce
// the original input, the contract StreamSplitter is built on.
func TestSplitter_Roundtrip(t *testing.T) {
	input := "alpha\x1ebeta\x1egamma\x1edelta"
	s := NewSplitter(strings.NewReader(input), "\x1e", 3)
	got := drain(t, s)
	if strings.Join(got, "\x1e") != input {
		t.Fatalf("roundtrip mismatch: got %q, want %q", strings.Join(got, "\x1e"), input)
	}
}
