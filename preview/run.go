// Package preview implements "render" command: single document, supplied as
// preview state file or fetched from content store by identifier, is
// rendered into HTML page.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"newsview/block"
	"newsview/loader"
	"newsview/render"
	"newsview/state"
	"newsview/store"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("preview")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if theme := block.Theme(cmd.String("theme")); theme != "" {
		if !theme.Known() {
			log.Warn("Unknown theme requested, ignoring", zap.String("theme", string(theme)))
		} else {
			env.Cfg.Render.DefaultTheme = string(theme)
		}
	}
	env.Overwrite = cmd.Bool("overwrite")

	tk, err := NewToolkit(env, log)
	if err != nil {
		return err
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, tk, env, log)
}

// process handles rendering independently of CLI framework. Existing regular
// file is preview state, anything else is document identifier.
func process(ctx context.Context, src, dst string, tk *Toolkit, env *state.LocalEnv, log *zap.Logger) error {
	var (
		source     loader.Source
		sourceFile string
		fetcher    loader.Fetcher
	)

	fi, err := os.Stat(src)
	switch {
	case err == nil && fi.Mode().IsRegular():
		if source.Preview, err = readPreviewState(src, tk.Theme, log); err != nil {
			return err
		}
		sourceFile = strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	case err == nil:
		return fmt.Errorf("unexpected path mode for (%s)", src)
	case strings.EqualFold(filepath.Ext(src), ".json"):
		return fmt.Errorf("input source was not found (%s)", src)
	default:
		s, err := store.Open(&env.Cfg.Store, tk.Theme, log)
		if err != nil {
			return fmt.Errorf("unable to open content store: %w", err)
		}
		if s != nil {
			defer s.Close()
			fetcher = s
		}
		source.ID = src
	}

	snap, err := loader.Load(ctx, fetcher, tk.Theme, source, log)
	if err != nil {
		return err
	}

	outputName := buildOutputPath(buildValues(snap, sourceFile), dst, env)
	if err := prepareOutput(outputName, env.Overwrite, log); err != nil {
		return err
	}

	view := tk.Renderer.View(snap)
	if tk.Checker != nil {
		tk.Checker.Check(view)
	}
	var buf bytes.Buffer
	if err := render.WritePage(&buf, render.Page(view, tk.Page)); err != nil {
		return fmt.Errorf("unable to render page: %w", err)
	}
	if err := os.WriteFile(outputName, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("unable to write page: %w", err)
	}
	log.Info("Page written", zap.String("to", outputName), zap.Stringer("status", snap.Status), zap.Int("blocks", len(snap.Blocks())))

	var problems error
	if snap.Doc != nil {
		problems = block.Validate(snap.Doc)
		for _, p := range multierr.Errors(problems) {
			log.Debug("Document has problems", zap.String("source", src), zap.Error(p))
		}
	}
	if env.Rpt != nil {
		if snap.Doc != nil {
			env.Rpt.StoreData("document.txt", []byte(snap.Doc.String()))
		}
		if problems != nil {
			env.Rpt.StoreData("validation.txt", []byte(block.Describe(problems)))
		}
		env.Rpt.Store("result"+outputExt, outputName)
	}

	// fallback page is written anyway, but command must not look successful
	if snap.Status == loader.Failed {
		return fmt.Errorf("unable to load document %q: %w", snap.ID, snap.Err)
	}
	return nil
}

func readPreviewState(path string, theme block.Theme, log *zap.Logger) (*block.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open preview state: %w", err)
	}
	defer f.Close()

	doc, warnings, err := block.Decode(f, theme)
	if err != nil {
		return nil, fmt.Errorf("unable to decode preview state (%s): %w", path, err)
	}
	for _, w := range warnings {
		log.Warn("Preview state has problems", zap.String("file", path), zap.Error(w))
	}
	return doc, nil
}

func prepareOutput(outputName string, overwrite bool, log *zap.Logger) error {
	if _, err := os.Stat(outputName); err == nil {
		if !overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		return os.Remove(outputName)
	} else if !os.IsNotExist(err) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}
