package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkordes/pdf-archiver/internal/config"
	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/internal/notify"
	"github.com/pkordes/pdf-archiver/internal/registry"
	"github.com/pkordes/pdf-archiver/internal/repo"
)

// app carries what every subcommand needs once flags are parsed.
type app struct {
	v        *viper.Viper
	cfg      config.Config
	log      *slog.Logger
	notifier notify.UserNotifier
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:   "archiver",
		Short: "File PDFs into a dated, tagged archive",
		Long: `archiver renames PDFs to YYYY-MM-DD--description__tag1_tag2.pdf and moves
them into <archive-root>/YYYY. Fields are taken from the current filename and
can be overridden with flags.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.String("archive-root", "", "archive directory (env ARCHIVE_ROOT)")
	pf.String("db", "", "tag database (default <archive-root>/.archiver.db, env TAG_DB)")
	pf.String("log-level", "", "debug, info, warn or error (env LOG_LEVEL)")
	pf.String("config", "", "config file (env ARCHIVER_CONFIG)")

	for key, flag := range map[string]string{
		config.KeyArchiveRoot: "archive-root",
		config.KeyTagDB:       "db",
		config.KeyLogLevel:    "log-level",
		config.KeyConfigFile:  "config",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(a.parseCmd(), a.planCmd(), a.archiveCmd(), a.tagsCmd())
	return root
}

// setup loads configuration and the logger before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadCLI(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	a.notifier = notify.NewSlogNotifier(a.log)
	return nil
}

// requireArchiveRoot reports a missing archive root the way the engine does.
func (a *app) requireArchiveRoot(ctx context.Context) error {
	if a.cfg.ArchiveRoot != "" {
		return nil
	}
	notify.NotifyError(ctx, a.notifier, domain.ErrNoArchiveRoot)
	return fmt.Errorf("%w: pass --archive-root or set ARCHIVE_ROOT", domain.ErrNoArchiveRoot)
}

// openTags opens the SQLite tag store and loads the registry from it.
// The returned close func must be called when done.
func (a *app) openTags(ctx context.Context) (*registry.Registry, repo.TagRepo, func(), error) {
	if a.cfg.TagDB == "" {
		return nil, nil, nil, errors.New("no tag database: pass --db or --archive-root")
	}

	store, err := repo.NewSQLiteTagStore(ctx, a.cfg.TagDB)
	if err != nil {
		return nil, nil, nil, err
	}
	reg, err := registry.Load(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, nil, nil, err
	}
	a.log.DebugContext(ctx, "tag registry loaded", "db", a.cfg.TagDB, "tags", reg.Len())
	return reg, store, func() { _ = store.Close() }, nil
}
