package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/and161185/hashpass/internal/config"
	"github.com/and161185/hashpass/internal/errs"
	"github.com/and161185/hashpass/internal/logging"
	"github.com/and161185/hashpass/internal/migrate"
	"github.com/and161185/hashpass/internal/model"
	"github.com/and161185/hashpass/internal/repository"
	"github.com/and161185/hashpass/internal/repository/postgres"
	"github.com/and161185/hashpass/internal/repository/sqlite"
	"github.com/and161185/hashpass/internal/service"
)

var errNoProfiles = errors.New("no profiles yet; create one with `hashpass profile create <name>`")

// app carries the wiring shared by all subcommands. It is filled in by init,
// which runs before any subcommand that needs the store.
type app struct {
	term    *terminal
	cfgFile string

	v   *viper.Viper
	cfg config.Config
	log *zap.Logger

	profiles service.ProfileService
	tags     service.TagService
	gen      *service.Generator

	closers []func()
}

// run builds the command tree, executes args and releases resources.
func run(ctx context.Context, t *terminal, args []string) error {
	a := &app{term: t, log: zap.NewNop()}
	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetIn(t.in)
	cmd.SetOut(t.out)
	cmd.SetErr(t.errOut)
	defer a.close()

	err := cmd.ExecuteContext(ctx)
	if errors.Is(err, errs.ErrStorage) {
		a.log.Error("settings store failure", zap.Error(err))
	}
	return err
}

func (a *app) init(cmd *cobra.Command) error {
	v := config.New()
	root := cmd.Root().PersistentFlags()
	for key, flag := range map[string]string{
		config.KeyDatabaseType: "db-type",
		config.KeyDatabaseDSN:  "db-dsn",
		config.KeyLogLevel:     "log-level",
	} {
		if err := v.BindPFlag(key, root.Lookup(flag)); err != nil {
			return err
		}
	}
	if err := config.Read(v, a.cfgFile); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	cfg, err := config.Resolve(v)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		return errs.InvalidInput(config.KeyLogLevel, err.Error())
	}
	a.v, a.cfg, a.log = v, cfg, log
	return a.openStore(cmd.Context())
}

func (a *app) openStore(ctx context.Context) error {
	var (
		profiles repository.ProfileRepository
		tags     repository.TagRepository
	)
	dsn := a.cfg.DatabaseDSN
	switch a.cfg.DatabaseType {
	case "postgres":
		if err := migrate.UpDSN(ctx, dsn); err != nil {
			return fmt.Errorf("migrate up: %w", err)
		}
		db, err := postgres.New(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		profiles, tags = postgres.NewProfileRepo(db), postgres.NewTagRepo(db)
	default:
		if dsn != sqlite.MemoryDSN {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
				return err
			}
		}
		db, err := sqlite.Open(ctx, dsn, a.log)
		if err != nil {
			return fmt.Errorf("open sqlite: %w", err)
		}
		a.closers = append(a.closers, func() { _ = db.Close() })
		profiles, tags = sqlite.NewProfileRepo(db), sqlite.NewTagRepo(db)
	}
	a.log.Debug("settings store open", zap.String("type", a.cfg.DatabaseType))

	a.profiles = service.NewProfileService(profiles, a.log)
	a.tags = service.NewTagService(profiles, tags, a.log)
	a.gen = service.NewGenerator(profiles, a.tags, a.log)
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
	_ = a.log.Sync()
}

// profile picks the explicit id, else the last used profile, else the first one.
func (a *app) profile(ctx context.Context, explicit int64) (model.Profile, error) {
	id := explicit
	if id == model.NoID {
		id = a.cfg.LastProfile
	}
	if id != model.NoID {
		p, err := a.profiles.Get(ctx, id)
		if err == nil || explicit != model.NoID || !errors.Is(err, errs.ErrNotFound) {
			return p, err
		}
	}
	list, err := a.profiles.List(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	if len(list) == 0 {
		return model.Profile{}, errNoProfiles
	}
	return list[0], nil
}

// remember stores id as the last used profile. Failure only costs the default next time.
func (a *app) remember(id int64) {
	if a.cfg.LastProfile == id {
		return
	}
	if err := config.SavePreference(a.v, config.KeyLastProfile, id); err != nil {
		a.log.Warn("save last profile", zap.Error(err))
		return
	}
	a.cfg.LastProfile = id
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.InvalidInput("id", "must be a positive integer")
	}
	return id, nil
}

func parseType(s string) (model.PasswordType, error) {
	t, ok := model.ParsePasswordType(s)
	if !ok {
		return 0, errs.InvalidInput("type", fmt.Sprintf("want one of %v", model.PasswordTypes()))
	}
	return t, nil
}
