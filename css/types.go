package css

import (
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	"go.uber.org/zap"
)

// Rule is a single ruleset. Grouped selectors are kept together, the same
// declarations apply to each of them.
type Rule struct {
	Selectors  []string
	Properties map[string]string
	// Media is the query of enclosing @media block, empty for top level rules.
	Media string
}

// printOnly tells if rule applies to printed media only.
func (r Rule) printOnly() bool {
	if r.Media == "" {
		return false
	}
	for q := range strings.SplitSeq(strings.ToLower(r.Media), ",") {
		f := strings.Fields(q)
		if len(f) > 0 && f[0] == "only" {
			f = f[1:]
		}
		if len(f) == 0 || f[0] != "print" {
			return false
		}
	}
	return true
}

// Stylesheet is the parsed page stylesheet.
type Stylesheet struct {
	Rules    []Rule
	Imports  []string
	Warnings []string
}

// Classes returns set of class names referenced by any selector, in any
// position: ".a .b:hover > p.c" references a, b and c. Rules inside @media
// blocks count unless they are for print only, previews are never printed.
func (s *Stylesheet) Classes() map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range s.Rules {
		if r.printOnly() {
			continue
		}
		for _, sel := range r.Selectors {
			for _, c := range selectorClasses(sel) {
				out[c] = struct{}{}
			}
		}
	}
	return out
}

// Missing returns classes used in the element tree which are not referenced
// by the stylesheet, in natural order.
func (s *Stylesheet) Missing(root *etree.Element) []string {
	known := s.Classes()
	used := make(map[string]struct{})
	collectClasses(root, used)

	var out []string
	for c := range maps.Keys(used) {
		if _, ok := known[c]; !ok {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
	return out
}

func collectClasses(e *etree.Element, into map[string]struct{}) {
	if e == nil {
		return
	}
	for c := range strings.FieldsSeq(e.SelectAttrValue("class", "")) {
		into[c] = struct{}{}
	}
	for _, child := range e.ChildElements() {
		collectClasses(child, into)
	}
}

func selectorClasses(sel string) []string {
	var out []string
	for i := 0; i < len(sel); i++ {
		if sel[i] != '.' {
			continue
		}
		j := i + 1
		for j < len(sel) && isNameChar(sel[j]) {
			j++
		}
		if j > i+1 && !isDigit(sel[i+1]) {
			out = append(out, sel[i+1:j])
		}
		i = j - 1
	}
	return out
}

func isNameChar(c byte) bool {
	return c == '-' || c == '_' || isDigit(c) || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Checker reports classes missing from stylesheet. Each class is reported
// only once during checker lifetime, pages are rendered repeatedly in server
// mode.
type Checker struct {
	sheet *Stylesheet
	log   *zap.Logger

	mu       sync.Mutex
	reported map[string]struct{}
}

// NewChecker logs imported stylesheets once: they are not followed, so
// classes defined there are reported as missing.
func NewChecker(sheet *Stylesheet, log *zap.Logger) *Checker {
	c := &Checker{sheet: sheet, log: log.Named("css"), reported: make(map[string]struct{})}
	for _, url := range sheet.Imports {
		c.log.Warn("Imported stylesheet is not checked", zap.String("import", url))
	}
	return c
}

// Check logs and returns classes of the tree not reported before.
func (c *Checker) Check(root *etree.Element) []string {
	missing := c.sheet.Missing(root)

	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []string
	for _, class := range missing {
		if _, done := c.reported[class]; done {
			continue
		}
		c.reported[class] = struct{}{}
		fresh = append(fresh, class)
		c.log.Warn("Stylesheet does not define rendered class", zap.String("class", class))
	}
	return fresh
}
