package render

import (
	"testing"

	"github.com/beevik/etree"
	"go.uber.org/zap/zaptest"

	"newsview/icons"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return New(icons.NewSet(map[string]string{
		"whatsapp":  "/icons/wa.png",
		"instagram": "/icons/ig.png",
		"facebook":  "/icons/fb.png",
		"twitter":   "/icons/x.png",
	}), zaptest.NewLogger(t))
}

func serialize(t *testing.T, e *etree.Element) string {
	t.Helper()
	if e == nil {
		return ""
	}
	doc := etree.NewDocument()
	doc.SetRoot(e.Copy())
	s, err := doc.WriteToString()
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	return s
}

func attr(e *etree.Element, key string) string {
	return e.SelectAttrValue(key, "")
}

func mustFind(t *testing.T, e *etree.Element, path string) *etree.Element {
	t.Helper()
	found := e.FindElement(path)
	if found == nil {
		t.Fatalf("element %q not found in %s", path, serialize(t, e))
	}
	return found
}
