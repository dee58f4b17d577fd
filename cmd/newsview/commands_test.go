package main

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"newsview/block"
	"newsview/config"
	"newsview/store"
)

func newTestImporter(t *testing.T, strict bool, log *zap.Logger) *importer {
	t.Helper()
	db, err := store.OpenSQLite(filepath.Join(t.TempDir(), "docs.db"), block.ThemeLight, log)
	if err != nil {
		t.Fatalf("OpenSQLite() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &importer{db: db, theme: block.ThemeLight, strict: strict, log: log}
}

func writeBundle(t *testing.T, entries map[string]string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "bundle.zip")
	f, err := os.Create(name)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for entry, body := range entries {
		fw, err := w.Create(entry)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return name
}

func storedIDs(t *testing.T, im *importer) []string {
	t.Helper()
	ids, err := im.db.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	return ids
}

func TestImporter_Bundle(t *testing.T) {
	im := newTestImporter(t, false, zaptest.NewLogger(t))
	bundle := writeBundle(t, map[string]string{
		"2024/doc2.json":  `{"blocks":[{"type":"paragraph","text":"two"}]}`,
		"2024/doc10.json": `{"theme":"dark","blocks":[]}`,
		"broken.json":     `{"blocks":`,
		"notes.txt":       "ignored",
	})

	if err := im.bundle(context.Background(), bundle); err == nil {
		t.Error("expected error for broken document in bundle")
	}
	if got, want := storedIDs(t, im), []string{"doc2", "doc10"}; !slices.Equal(got, want) {
		t.Errorf("stored ids = %v, want %v", got, want)
	}
}

func TestImporter_BundleCanceled(t *testing.T) {
	im := newTestImporter(t, false, zaptest.NewLogger(t))
	bundle := writeBundle(t, map[string]string{"a.json": `{"blocks":[]}`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := im.bundle(ctx, bundle); err == nil {
		t.Error("expected error for canceled import")
	}
	if ids := storedIDs(t, im); len(ids) != 0 {
		t.Errorf("nothing must be stored after cancel, got %v", ids)
	}
}

func TestImporter_Validation(t *testing.T) {
	// second block is unknown, third has no src
	doc := `{"blocks":[{"type":"paragraph","text":"ok"},{"type":"carousel"},{"type":"image"}]}`
	clean := `{"blocks":[{"type":"paragraph","text":"ok"}]}`

	tests := []struct {
		name       string
		strict     bool
		wantStored []string
		wantErr    bool
	}{
		{name: "lenient", strict: false, wantStored: []string{"clean", "news"}},
		{name: "strict", strict: true, wantStored: []string{"clean"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			im := newTestImporter(t, tt.strict, zap.New(core))

			err := im.put("news", []byte(doc))
			if (err != nil) != tt.wantErr {
				t.Errorf("put() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err := im.put("clean", []byte(clean)); err != nil {
				t.Errorf("put() of clean document error = %v", err)
			}

			if got := storedIDs(t, im); !slices.Equal(got, tt.wantStored) {
				t.Errorf("stored ids = %v, want %v", got, tt.wantStored)
			}
			problems := logs.FilterMessage("Document has problems").FilterField(zap.String("id", "news"))
			if problems.Len() != 2 {
				t.Errorf("got %d logged problems, want 2", problems.Len())
			}
			if logs.FilterField(zap.String("id", "clean")).Len() != 0 {
				t.Error("clean document must not report problems")
			}
		})
	}
}

func TestImporter_File(t *testing.T) {
	im := newTestImporter(t, false, zaptest.NewLogger(t))
	dir := t.TempDir()

	path := filepath.Join(dir, "story.json")
	if err := os.WriteFile(path, []byte(`{"blocks":[]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if err := im.file(path, ""); err != nil {
		t.Fatalf("file() error = %v", err)
	}
	if err := im.file(path, "custom"); err != nil {
		t.Fatalf("file() with id error = %v", err)
	}
	if err := im.file(filepath.Join(dir, "missing.json"), ""); err == nil {
		t.Error("expected error for missing file")
	}
	if got, want := storedIDs(t, im), []string{"custom", "story"}; !slices.Equal(got, want) {
		t.Errorf("stored ids = %v, want %v", got, want)
	}
}

func TestConfiguration(t *testing.T) {
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Store.HTTP.Token = "very-secret"

	data, kind, err := configuration(cfg, false)
	if err != nil || kind != "actual" {
		t.Fatalf("configuration() = %q, %v", kind, err)
	}
	if strings.Contains(string(data), "very-secret") {
		t.Error("actual configuration leaked store token")
	}

	data, kind, err = configuration(cfg, true)
	if err != nil || kind != "default" {
		t.Fatalf("configuration(builtin) = %q, %v", kind, err)
	}
	if !strings.Contains(string(data), "default_theme") {
		t.Errorf("built-in configuration looks wrong:\n%s", data)
	}
}
