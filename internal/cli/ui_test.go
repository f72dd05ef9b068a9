package cli

import (
	"bytes"
	"strings"
	"testing"
)

func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStatus(t *testing.T) {
	tests := []struct {
		print func(string, ...any)
		icon  string
	}{
		{printSuccess, "✓"},
		{printError, "✗"},
		{printWarning, "!"},
		{printInfo, "›"},
	}
	for _, tt := range tests {
		buf := captureStdout(t)
		tt.print("%d colors", 3)
		got := buf.String()
		if !strings.Contains(got, tt.icon) || !strings.Contains(got, "3 colors") {
			t.Errorf("status line = %q, want icon %q and message", got, tt.icon)
		}
		if !strings.HasSuffix(got, "\n") {
			t.Errorf("status line %q is not newline terminated", got)
		}
	}
}

func TestFormatStats(t *testing.T) {
	tests := []struct {
		nodes, edges, colors int
		want, omit           []string
	}{
		{5, 0, 0, []string{"5 nodes"}, []string{"edges", "colors"}},
		{5, 4, 0, []string{"5 nodes", "4 edges"}, []string{"colors"}},
		{5, 4, 2, []string{"5 nodes", "4 edges", "2 colors"}, nil},
	}
	for _, tt := range tests {
		got := formatStats(tt.nodes, tt.edges, tt.colors)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("formatStats(%d, %d, %d) = %q, missing %q", tt.nodes, tt.edges, tt.colors, got, w)
			}
		}
		for _, o := range tt.omit {
			if strings.Contains(got, o) {
				t.Errorf("formatStats(%d, %d, %d) = %q, should omit %q", tt.nodes, tt.edges, tt.colors, got, o)
			}
		}
	}
}

func TestPrintValues(t *testing.T) {
	buf := captureStdout(t)
	printKeyValue("fps", "60.0")
	printFile("graph.svg")
	printNextStep("Compare timings", "colorgraph bench")
	printNewline()

	got := buf.String()
	for _, want := range []string{"fps", "60.0", "graph.svg", "Compare timings:", "colorgraph bench"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "\n"); n != 4 {
		t.Errorf("output has %d lines, want 4", n)
	}
}
