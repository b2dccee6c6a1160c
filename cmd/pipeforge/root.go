package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Promptonauts/pipeforge/internal/config"
	"github.com/Promptonauts/pipeforge/internal/logging"
	"github.com/Promptonauts/pipeforge/pkg/service"
	"github.com/Promptonauts/pipeforge/pkg/store"
	"github.com/Promptonauts/pipeforge/pkg/transpiler"
)

// app carries state shared by every subcommand once flags are parsed.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "pipeforge",
		Short:         "Transpile CI/CD pipeline specs between providers.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}
	root.SetVersionTemplate("{{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./"+config.DefaultFile+" when present)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newConvertCmd(a),
		newListCmd(a),
		newServeCmd(a),
		newHistoryCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logger
	return nil
}

// openHistory opens and migrates the configured history database.
func (a *app) openHistory() (*store.SQLiteStore, error) {
	st, err := store.NewSQLiteStore(a.cfg.History.Path)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// newService builds the conversion service; withHistory attaches the store.
func (a *app) newService(withHistory bool) (*service.Service, func(), error) {
	opts := []service.Option{service.WithLogger(a.log)}
	cleanup := func() {}
	if withHistory {
		st, err := a.openHistory()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, service.WithHistory(st))
		cleanup = func() {
			if err := st.Close(); err != nil {
				a.log.WithError(err).Warn("history: close")
			}
		}
	}
	return service.New(transpiler.New(nil, nil), opts...), cleanup, nil
}
