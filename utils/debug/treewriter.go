// Package debug has helpers producing human readable dumps of program
// structures for debug reports.
package debug

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/maruel/natural"
)

// TreeWriter accumulates indented lines, one node per line.
type TreeWriter struct {
	w      *strings.Builder
	indent string
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{w: &strings.Builder{}, indent: "  "}
}

func (tw *TreeWriter) String() string {
	return tw.w.String()
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.w.WriteString(tw.indent)
	}
}

func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(tw.w, format, args...)
	tw.w.WriteByte('\n')
}

// TextBlock writes labeled text, quoting it so control characters are
// visible. Empty text is skipped entirely.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	if value == "" {
		return
	}
	tw.pad(depth)
	tw.w.WriteString(label)
	tw.w.WriteString(": ")
	tw.w.WriteString(encodeText(value))
	tw.w.WriteByte('\n')
}

// Node writes label followed by non-empty key=value attributes. Attributes
// are given as key, value pairs.
func (tw *TreeWriter) Node(depth int, label string, kv ...string) {
	tw.pad(depth)
	tw.w.WriteString(label)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] == "" {
			continue
		}
		fmt.Fprintf(tw.w, " %s=%s", kv[i], encodeText(kv[i+1]))
	}
	tw.w.WriteByte('\n')
}

// Map writes labeled map entries in natural key order, skipping empty values.
func (tw *TreeWriter) Map(depth int, label string, m map[string]string) {
	if len(m) == 0 {
		return
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	tw.Line(depth, "%s:", label)
	for _, k := range keys {
		if m[k] == "" {
			continue
		}
		tw.Line(depth+1, "%s=%s", k, encodeText(m[k]))
	}
}

func encodeText(raw string) string {
	if raw == "" {
		return raw
	}
	return strconv.Quote(raw)
}
