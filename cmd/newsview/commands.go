package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"newsview/archive"
	"newsview/block"
	"newsview/config"
	"newsview/preview"
	"newsview/server"
	"newsview/state"
	"newsview/store"
)

func serve(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("serve")

	tk, err := preview.NewToolkit(env, log)
	if err != nil {
		return err
	}

	st, err := store.Open(&env.Cfg.Store, tk.Theme, log)
	if err != nil {
		return fmt.Errorf("unable to open content store: %w", err)
	}
	opts := server.Options{
		Renderer: tk.Renderer,
		Theme:    tk.Theme,
		Page:     tk.Page,
		Checker:  tk.Checker,
		Report:   env.Rpt,
	}
	if st != nil {
		defer func() {
			err = multierr.Append(err, st.Close())
		}()
		opts.Fetcher = st
		if db, ok := st.(*store.SQLite); ok {
			opts.Raw = db
		}
	} else {
		log.Info("No content store configured, only posted documents could be rendered")
	}

	if env.Cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	listen := env.Cfg.Server.Listen
	if l := cmd.String("listen"); l != "" {
		listen = l
	}
	return server.New(opts, log).Run(ctx, listen)
}

func openLocalStore(env *state.LocalEnv, log *zap.Logger) (*store.SQLite, error) {
	path := env.Cfg.Store.SQLite.Path
	if path == "" {
		return nil, errors.New("local store path (store.sqlite.path) is not configured")
	}
	return store.OpenSQLite(path, block.Theme(env.Cfg.Render.DefaultTheme), log)
}

// importer puts documents into local store, checking them first.
type importer struct {
	db     *store.SQLite
	theme  block.Theme
	strict bool
	log    *zap.Logger
}

// put validates and stores single document. Problems which would make parts
// of the document disappear from rendering are logged, in strict mode such
// document is rejected.
func (im *importer) put(id string, data []byte) error {
	doc, _, err := block.DecodeBytes(data, im.theme)
	if err != nil {
		return err
	}
	if problems := block.Validate(doc); problems != nil {
		errs := multierr.Errors(problems)
		for _, p := range errs {
			im.log.Warn("Document has problems", zap.String("id", id), zap.Error(p))
		}
		if im.strict {
			return fmt.Errorf("document %q rejected, %d problem(s): %w", id, len(errs), problems)
		}
	}
	return im.db.Put(id, data)
}

func (im *importer) file(path, id string) error {
	if id == "" {
		id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err == nil {
		err = im.put(id, data)
	}
	if err != nil {
		im.log.Error("Unable to import document", zap.String("file", path), zap.Error(err))
		return fmt.Errorf("%s: %w", path, err)
	}
	im.log.Info("Document imported", zap.String("file", path), zap.String("id", id))
	return nil
}

// bundle stores every json document packed in zip archive. Bad documents are
// reported and skipped.
func (im *importer) bundle(ctx context.Context, path string) (err error) {
	count := 0
	walkErr := archive.Walk(path, ".json", func(name string, r io.Reader) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, er := io.ReadAll(r)
		if er == nil {
			er = im.put(archive.EntryID(name), data)
		}
		if er != nil {
			im.log.Error("Unable to import document", zap.String("bundle", path), zap.String("entry", name), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("%s[%s]: %w", path, name, er))
			return nil
		}
		count++
		return nil
	})
	if walkErr != nil {
		return multierr.Append(err, fmt.Errorf("unable to read bundle %s: %w", path, walkErr))
	}
	im.log.Info("Bundle imported", zap.String("bundle", path), zap.Int("documents", count))
	return err
}

func importDocuments(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("import")

	files := cmd.Args().Slice()
	if len(files) == 0 {
		return errors.New("no document files have been specified")
	}
	id := cmd.String("id")
	if id != "" && len(files) > 1 {
		return errors.New("--id could only be used with single document file")
	}

	db, err := openLocalStore(env, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, db.Close())
	}()

	im := &importer{db: db, theme: block.Theme(env.Cfg.Render.DefaultTheme), strict: cmd.Bool("strict"), log: log}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.EqualFold(filepath.Ext(f), ".zip") {
			err = multierr.Append(err, im.bundle(ctx, f))
			continue
		}
		err = multierr.Append(err, im.file(f, id))
	}
	return err
}

func listDocuments(ctx context.Context, _ *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("list")

	db, err := openLocalStore(env, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, db.Close())
	}()

	ids, err := db.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		fmt.Fprintln(os.Stdout, id)
	}
	log.Debug("Listed documents", zap.Int("count", len(ids)))
	return nil
}

// configuration returns either built-in defaults or configuration in effect.
func configuration(cfg *config.Config, builtin bool) ([]byte, string, error) {
	if builtin {
		data, err := config.Prepare()
		return data, "default", err
	}
	data, err := config.Dump(cfg)
	return data, "actual", err
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	data, kind, err := configuration(env.Cfg, cmd.Bool("default"))
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	fname := cmd.Args().Get(0)
	if len(fname) == 0 {
		env.Log.Info("Writing configuration", zap.String("state", kind), zap.String("file", "STDOUT"))
		_, err = os.Stdout.Write(data)
	} else {
		env.Log.Info("Writing configuration", zap.String("state", kind), zap.String("file", fname))
		err = os.WriteFile(fname, data, 0644)
	}
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
