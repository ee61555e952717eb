package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/ledger/memory"
	"github.com/vncsmyrnk/tutorialvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/tutorialvote/internal/app"
	"github.com/vncsmyrnk/tutorialvote/internal/config"
	"github.com/vncsmyrnk/tutorialvote/internal/core/domain"
	"github.com/vncsmyrnk/tutorialvote/internal/core/ports"
	"github.com/vncsmyrnk/tutorialvote/internal/core/services"
	"github.com/vncsmyrnk/tutorialvote/internal/logger"
)

// env bundles what every subcommand needs. Tests replace openLedger and
// openIndex to avoid real collaborators.
type env struct {
	v          *viper.Viper
	out        io.Writer
	openLedger func(ctx context.Context, cfg config.Config) (ports.Ledger, func() error, error)
	openIndex  func(cfg config.Config) (ports.SearchIndexUpdater, error)
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithEnv(&env{
		v:          config.NewViper(),
		openLedger: app.OpenLedger,
		openIndex:  app.NewIndex,
	})
}

func newRootCmdWithEnv(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:           "govctl",
		Short:         "Operate tutorial governance votes",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if e.out == nil {
				e.out = cmd.OutOrStdout()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.String("ledger", "", "ledger driver: postgres, jsonrpc or memory")
	flags.String("rpc-url", "", "governance node JSON-RPC endpoint")
	flags.String("db-host", "", "database host")
	flags.String("db-port", "", "database port")
	flags.String("db-user", "", "database user")
	flags.String("db-pass", "", "database password")
	flags.String("db-name", "", "database name")
	flags.String("log-level", "", "log level")
	bindFlags(e.v, flags, map[string]string{
		"ledger":    "LEDGER_DRIVER",
		"rpc-url":   "LEDGER_RPC_URL",
		"db-host":   "POSTGRES_HOST",
		"db-port":   "POSTGRES_PORT",
		"db-user":   "POSTGRES_USER",
		"db-pass":   "POSTGRES_PASSWORD",
		"db-name":   "POSTGRES_DB",
		"log-level": "LOG_LEVEL",
	})

	root.AddCommand(
		newVoteCmd(e),
		newVotesCmd(e),
		newStateCmd(e),
		newProposeCmd(e),
		newTutorialCmd(e),
		newSetQuorumCmd(e),
	)
	return root
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for name, key := range keys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func (e *env) config() (config.Config, error) {
	return config.FromViper(e.v)
}

func (e *env) logger(cfg config.Config) zerolog.Logger {
	return logger.New(cfg.LogLevel)
}

func (e *env) printJSON(v interface{}) error {
	enc := json.NewEncoder(e.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// adminLedger is implemented by ledgers this tool can administer directly.
type adminLedger interface {
	ProposeTutorial(ctx context.Context, id int64) error
	SetQuorum(ctx context.Context, quorum int64) error
	TutorialState(ctx context.Context, id int64) (domain.ProposalState, error)
}

var (
	_ adminLedger = (*postgres.LedgerRepository)(nil)
	_ adminLedger = (*memory.Store)(nil)
)

func (e *env) withAdminLedger(ctx context.Context, fn func(adminLedger) error) error {
	cfg, err := e.config()
	if err != nil {
		return err
	}
	ledger, closeLedger, err := e.openLedger(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	admin, ok := ledger.(adminLedger)
	if !ok {
		return fmt.Errorf("ledger driver %q cannot be administered from govctl", cfg.Ledger.Driver)
	}
	return fn(admin)
}

func newSubmissionService(ledger ports.LedgerVoteService, index ports.SearchIndexUpdater, log zerolog.Logger) ports.VoteSubmissionService {
	return services.NewVoteSubmissionService(ledger, index, log)
}
