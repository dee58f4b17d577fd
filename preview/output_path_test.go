package preview

import (
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"newsview/config"
	"newsview/state"
)

func setupTestEnvForOutputPath(t *testing.T, transliterate bool, template string) *state.LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Render.FileNameTransliterate = transliterate
	cfg.Render.OutputNameTemplate = template
	return &state.LocalEnv{Log: zaptest.NewLogger(t), Cfg: cfg}
}

func TestBuildOutputPath(t *testing.T) {
	tests := []struct {
		name          string
		values        Values
		transliterate bool
		template      string
		want          string
	}{
		{
			name:   "identifier",
			values: Values{ID: "news-42"},
			want:   filepath.Join("/out", "news-42.html"),
		},
		{
			name:   "source file wins",
			values: Values{ID: "", SourceFile: "draft"},
			want:   filepath.Join("/out", "draft.html"),
		},
		{
			name:   "identifier with separators",
			values: Values{ID: "2024/05/story"},
			want:   filepath.Join("/out", "202405story.html"),
		},
		{
			name:          "transliterate",
			values:        Values{SourceFile: "Breaking News: Today"},
			transliterate: true,
			want:          filepath.Join("/out", "breaking-news-today.html"),
		},
		{
			name:     "template with subdirs",
			values:   Values{ID: "7", Theme: "dark", Blocks: 3},
			template: "{{ .Theme }}/{{ .ID }}-{{ .Blocks }}",
			want:     filepath.Join("/out", "dark", "7-3.html"),
		},
		{
			name:     "template cannot climb out",
			values:   Values{ID: "7"},
			template: "../../{{ .ID }}",
			want:     filepath.Join("/out", "7.html"),
		},
		{
			name:     "template with sprig function",
			values:   Values{ID: "abc"},
			template: `{{ .ID | upper }}`,
			want:     filepath.Join("/out", "ABC.html"),
		},
		{
			name:     "broken template falls back",
			values:   Values{ID: "abc"},
			template: "{{ .Nope",
			want:     filepath.Join("/out", "abc.html"),
		},
		{
			name:     "empty expansion falls back",
			values:   Values{ID: "abc"},
			template: "{{ .SourceFile }}",
			want:     filepath.Join("/out", "abc.html"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnvForOutputPath(t, tt.transliterate, tt.template)
			if got := buildOutputPath(tt.values, "/out", env); got != tt.want {
				t.Errorf("buildOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExpandTemplate(t *testing.T) {
	got, err := expandTemplate(config.OutputNameTemplateFieldName, "{{ .Context }}:{{ .ID }}", Values{Context: "output_name_template", ID: "x"})
	if err != nil {
		t.Fatalf("expandTemplate() error = %v", err)
	}
	if got != "output_name_template:x" {
		t.Errorf("expandTemplate() = %q", got)
	}

	if _, err := expandTemplate(config.OutputNameTemplateFieldName, "{{ .Missing }}", Values{}); err == nil {
		t.Error("expected error for unknown field")
	}
}
