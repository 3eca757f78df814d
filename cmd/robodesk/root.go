package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fentz26/robodesk/internal/audit"
	"github.com/fentz26/robodesk/internal/auth"
	"github.com/fentz26/robodesk/internal/board"
	"github.com/fentz26/robodesk/internal/config"
	"github.com/fentz26/robodesk/internal/guard"
	"github.com/fentz26/robodesk/internal/logging"
	"github.com/fentz26/robodesk/internal/store"
	"github.com/fentz26/robodesk/internal/tui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Command annotations read by setup.
const (
	// skipSetup marks commands that run without opening storage.
	skipSetup = "robodesk/skip-setup"
	// asyncRestore marks commands that resolve the session in the background.
	asyncRestore = "robodesk/async-restore"
)

const dialTimeout = 5 * time.Second

var errNotSignedIn = errors.New("not signed in: run `robodesk login` first")

// app holds what one invocation wires together.
type app struct {
	configPath string
	logLevel   string

	cfg      *config.Config
	logger   *logrus.Logger
	store    *store.Store
	kv       store.KV
	activity *audit.Log
	manager  *auth.Manager
	board    *board.Service
	router   *tui.Router

	closers []io.Closer
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "robodesk",
		Short: "robodesk - team workspace for robotics competitions",
		Long: `robodesk keeps a small team's Kanban board, robot run attachments and judging
evaluations behind a shared sign-in, with every login and logout recorded.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			if err := a.setup(cmd); err != nil {
				return err
			}
			if cmd.Annotations[asyncRestore] != "true" {
				a.manager.Restore()
			}
			return nil
		},
		// No RunE - defaults to showing help when no subcommand is provided
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Config file (default ~/.config/robodesk/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level override (debug, info, warn, error)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newActivityCmd(a),
		newTaskCmd(a),
		newAttachmentCmd(a),
		newEvalCmd(a),
		newEnumsCmd(),
		newConfigCmd(a),
		newTUICmd(a),
	)
	return root
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath != "" {
		return config.LoadConfig(a.configPath)
	}
	return config.LoadConfigFromHome()
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := cfg.Log.Level
	if a.logLevel != "" {
		level = a.logLevel
	}
	logger, err := logging.New(logging.Options{Level: level, Format: cfg.Log.Format, Output: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	a.logger = logger

	dbPath, err := cfg.DatabasePath()
	if err != nil {
		return err
	}
	s, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = s
	a.closers = append(a.closers, s)
	a.kv = s

	if cfg.SessionBackend == config.BackendRedis {
		ctx, cancel := context.WithTimeout(cmd.Context(), dialTimeout)
		defer cancel()
		r, err := store.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Prefix)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		a.closers = append(a.closers, r)
		a.kv = r
	}
	logger.WithFields(logrus.Fields{"database": dbPath, "session_backend": cfg.SessionBackend}).Debug("storage ready")

	roster, err := cfg.BuildRoster()
	if err != nil {
		return err
	}

	a.router = tui.NewRouter()
	a.activity = audit.NewLog(a.kv, logger)
	a.manager = auth.NewManager(roster, a.kv, a.activity,
		auth.WithNavigator(a.router),
		auth.WithLogger(logger),
	)
	a.board = board.NewService(a.store, a.manager, logger)
	return nil
}

// requireSession fails protected commands when nobody is signed in.
func (a *app) requireSession() error {
	switch guard.Decide(a.manager.Session()) {
	case guard.Render:
		return nil
	default:
		return errNotSignedIn
	}
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && a.logger != nil {
			a.logger.WithError(err).Warn("close failed")
		}
	}
	a.closers = nil
}

// setLogOutput redirects the logger, for full-screen commands.
func (a *app) setLogOutput(w io.Writer) {
	if a.logger != nil {
		a.logger.SetOutput(w)
	}
}

func openLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
