package preview

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	"newsview/block"
	"newsview/css"
	"newsview/icons"
	"newsview/render"
	"newsview/state"
)

// Toolkit is everything needed to turn loaded documents into pages. It is
// shared by "render" and "serve" commands.
type Toolkit struct {
	Renderer *render.Renderer
	Page     render.PageOptions
	Theme    block.Theme
	// Checker is nil unless stylesheet check was requested.
	Checker *css.Checker
}

// NewToolkit prepares renderer from program configuration. Page stylesheet
// is remembered in env.
func NewToolkit(env *state.LocalEnv, log *zap.Logger) (*Toolkit, error) {
	cfg := &env.Cfg.Render

	set, err := icons.Load(&env.Cfg.Icons, log)
	if err != nil {
		return nil, fmt.Errorf("unable to prepare social icons: %w", err)
	}

	source := "built-in"
	env.Stylesheet = render.DefaultStylesheet
	if cfg.StylesheetPath != "" {
		data, err := os.ReadFile(cfg.StylesheetPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read stylesheet from %q: %w", cfg.StylesheetPath, err)
		}
		env.Stylesheet, source = data, cfg.StylesheetPath
	}

	lang, err := language.Parse(cfg.Language)
	if err != nil {
		log.Warn("Bad page language, ignoring", zap.String("language", cfg.Language), zap.Error(err))
		lang = language.Und
	}

	tk := &Toolkit{
		Renderer: render.New(set, log),
		Page: render.PageOptions{
			Title:      cfg.Title,
			Lang:       lang,
			Stylesheet: env.Stylesheet,
		},
		Theme: block.Theme(cfg.DefaultTheme),
	}
	if cfg.CheckStylesheet {
		sheet := css.NewParser(log).Parse(env.Stylesheet, source)
		for _, w := range sheet.Warnings {
			log.Warn("Stylesheet problem", zap.String("source", source), zap.String("problem", w))
		}
		tk.Checker = css.NewChecker(sheet, log)
	}
	return tk, nil
}
