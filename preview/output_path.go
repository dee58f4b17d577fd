package preview

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"newsview/config"
	"newsview/state"
)

const outputExt = ".html"

// buildOutputPath returns output file name in dst directory. Without
// template the name is document identifier or source file base name,
// template may also produce subdirectories.
func buildOutputPath(values Values, dst string, env *state.LocalEnv) string {
	name := values.ID
	if values.SourceFile != "" {
		name = values.SourceFile
	}
	defaultFile := cleanPathSegment(name, env) + outputExt

	tmpl := env.Cfg.Render.OutputNameTemplate
	if tmpl == "" {
		return filepath.Join(dst, defaultFile)
	}

	expanded, err := expandTemplate(config.OutputNameTemplateFieldName, tmpl, values)
	if err != nil {
		env.Log.Warn("Unable to prepare output filename", zap.Error(err))
		return filepath.Join(dst, defaultFile)
	}
	segments := splitPath(filepath.FromSlash(expanded))
	if len(segments) == 0 {
		return filepath.Join(dst, defaultFile)
	}

	parts := make([]string, 0, len(segments)+1)
	parts = append(parts, dst)
	for _, s := range segments[:len(segments)-1] {
		parts = append(parts, cleanPathSegment(s, env))
	}
	parts = append(parts, cleanPathSegment(segments[len(segments)-1], env)+outputExt)
	return filepath.Join(parts...)
}

// splitPath splits relative path into segments dropping empty ones and
// anything trying to climb out of destination.
func splitPath(path string) []string {
	segments := make([]string, 0, 8)
	for s := range strings.SplitSeq(path, string(os.PathSeparator)) {
		s = strings.TrimSpace(s)
		if s == "" || s == "." || s == ".." {
			continue
		}
		segments = append(segments, s)
	}
	return slices.Clip(segments)
}

func cleanPathSegment(segment string, env *state.LocalEnv) string {
	if env.Cfg.Render.FileNameTransliterate {
		segment = slug.Make(segment)
	}
	return config.CleanFileName(segment)
}
