package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"
)

func captureStdout(fn func()) string {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	fn()
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func captureStderr(fn func()) string {
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w
	fn()
	_ = w.Close()
	os.Stderr = old
	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

func TestPrintError(t *testing.T) {
	output := captureStdout(func() {
		PrintError("Failed", "something went wrong")
	})
	if !strings.Contains(output, "Failed") {
		t.Errorf("PrintError output missing title, got: %q", output)
	}
	if !strings.Contains(output, "something went wrong") {
		t.Errorf("PrintError output missing message, got: %q", output)
	}
}

func TestPrintSuccess(t *testing.T) {
	output := captureStdout(func() {
		PrintSuccess("operation completed")
	})
	if !strings.Contains(output, "operation completed") {
		t.Errorf("PrintSuccess output missing message, got: %q", output)
	}
}

func TestPrintWarning(t *testing.T) {
	output := captureStdout(func() {
		PrintWarning("Heads Up", "something unusual")
	})
	if !strings.Contains(output, "Heads Up") {
		t.Errorf("PrintWarning output missing title, got: %q", output)
	}
	if !strings.Contains(output, "something unusual") {
		t.Errorf("PrintWarning output missing message, got: %q", output)
	}
}

func TestPrintCleanupSummary_NoWarnings(t *testing.T) {
	output := captureStdout(func() {
		PrintCleanupSummary(3, nil)
	})
	if !strings.Contains(output, "removed 3 residual clone directories") {
		t.Errorf("PrintCleanupSummary missing count, got: %q", output)
	}
}

func TestPrintCleanupSummary_Singular(t *testing.T) {
	output := captureStdout(func() {
		PrintCleanupSummary(1, nil)
	})
	if !strings.Contains(output, "removed 1 residual clone directory") {
		t.Errorf("PrintCleanupSummary singular form wrong, got: %q", output)
	}
}

func TestPrintCleanupSummary_WithWarnings(t *testing.T) {
	output := captureStdout(func() {
		PrintCleanupSummary(2, []string{"could not remove /tmp/diffhouse-abc: permission denied"})
	})
	if !strings.Contains(output, "permission denied") {
		t.Errorf("PrintCleanupSummary missing warning text, got: %q", output)
	}
}

func TestStyleTitle(t *testing.T) {
	result := StyleTitle("Section Header")
	if !strings.Contains(result, "Section Header") {
		t.Errorf("StyleTitle result missing text, got: %q", result)
	}
}

func TestPrintHelp(t *testing.T) {
	output := captureStdout(PrintHelp)
	for _, want := range []string{"diffhouse", "commits", "filemods", "diffs", "branches", "tags", "cleanup"} {
		if !strings.Contains(output, want) {
			t.Errorf("PrintHelp output missing %q, got: %q", want, output)
		}
	}
}

func TestPlural(t *testing.T) {
	if got := plural(1); got != "y" {
		t.Errorf("plural(1) = %q, want \"y\"", got)
	}
	if got := plural(0); got != "ies" {
		t.Errorf("plural(0) = %q, want \"ies\"", got)
	}
	if got := plural(2); got != "ies" {
		t.Errorf("plural(2) = %q, want \"ies\"", got)
	}
}
