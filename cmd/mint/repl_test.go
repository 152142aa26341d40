package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
)

func TestBraceDepth(t *testing.T) {
	cases := []struct {
		line string
		want int
	}{
		{"print 1;", 0},
		{"fn f() {", 1},
		{"{ { }", 1},
		{"}", -1},
		{`print "{";`, 0},
		{"// {", 0},
	}
	for _, tc := range cases {
		if got := braceDepth(tc.line); got != tc.want {
			t.Fatalf("braceDepth(%q) = %d, want %d", tc.line, got, tc.want)
		}
	}
}

func TestDiagnosticWriterKeepsOneLinePerWrite(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	var buf bytes.Buffer
	w := newDiagnosticWriter(&buf)
	n, err := w.Write([]byte("[Line 1] Error at end: Expect expression.\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != len("[Line 1] Error at end: Expect expression.\n") {
		t.Fatalf("short write: %d", n)
	}
	if got := buf.String(); got != "[Line 1] Error at end: Expect expression.\n" {
		t.Fatalf("got %q", got)
	}
}
