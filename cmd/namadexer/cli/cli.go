// Package cli wires namadexer's cobra commands together, the same shape the
// teacher's cmd/<binary>/cli package uses: a root command carrying no logic
// of its own and subcommands that each do one thing.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blocklayer/namadexer/internal/client"
	"github.com/blocklayer/namadexer/internal/codec"
	"github.com/blocklayer/namadexer/internal/config"
	"github.com/blocklayer/namadexer/internal/db"
	"github.com/blocklayer/namadexer/internal/epoch"
	"github.com/blocklayer/namadexer/internal/logging"
	"github.com/blocklayer/namadexer/internal/modules"
	"github.com/blocklayer/namadexer/internal/producer"
	"github.com/blocklayer/namadexer/internal/queue"
	"github.com/blocklayer/namadexer/internal/scheduler"
	"github.com/blocklayer/namadexer/internal/worker"
)

// version is overridden at build time via -ldflags "-X .../cli.version=...".
var version = "dev"

// app carries the config and logger resolved once in the root command's
// PersistentPreRunE, so every subcommand reaches them without a package
// global.
type app struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewRootCommand builds the namadexer command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "namadexer",
		Short: "namadexer indexes a Namada chain's blocks, transactions, and derived state.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.logger = logger
			return nil
		},
	}

	root.AddCommand(newRunCommand(a))
	root.AddCommand(newVersionCommand())
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the namadexer build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("namadexer", version)
			return nil
		},
	}
}

func newRunCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the indexer: genesis seed, backfill, tail, and worker pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.run(cmd.Context())
		},
	}
}

// run wires every component together in the fixed order modules.Module,
// worker.Pool, and producer.Producer require, then blocks until an
// interrupt or terminate signal arrives.
func (a *app) run(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sink, err := db.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConnections, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	node, err := client.Dial(cfg.Node.Config.RPC.Address, cfg.Node.Config.RPC.ClientName, logger)
	if err != nil {
		return err
	}

	checksums, err := codec.LoadChecksums()
	if err != nil {
		return err
	}

	mods := buildModules(cfg.Chain.Modules, node, sink, logger)

	sched := scheduler.New(logger)
	for _, m := range mods {
		if err := m.RegisterPeriodic(sched); err != nil {
			return fmt.Errorf("registering periodic tasks for module %s: %w", m.Name(), err)
		}
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Parsing.ParseGenesis {
		if err := seedGenesis(ctx, cfg.Parsing.GenesisFilePath, sink, logger); err != nil {
			return err
		}
	}

	q := queue.New(queue.DefaultCapacity, logger)
	tracker := epoch.NewTracker()
	pool := worker.New(q, node, sink, checksums, mods, tracker, logger)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		pool.Run(ctx, cfg.Parsing.Workers)
	}()

	startHeight := int64(cfg.Parsing.StartHeight)
	prod := producer.New(node, q, startHeight, cfg.Parsing.ParseOldBlocks, cfg.Parsing.ListenNewBlocks, logger)

	err = prod.Run(ctx)
	q.Close()
	wg.Wait()

	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("producer: %w", err)
	}
	logger.Info("namadexer shut down")
	return nil
}

// buildModules instantiates the registered modules in the fixed order
// staking, governance, consensus-time, filtered to the names chain.modules
// lists — an unknown name is logged and skipped rather than failing startup.
func buildModules(names []string, node modules.NodeClient, sink modules.Sink, logger *zap.SugaredLogger) []modules.Module {
	available := map[string]modules.Module{
		"staking":        modules.NewStaking(node, sink, logger),
		"governance":     modules.NewGovernance(node, sink, logger),
		"consensus-time": modules.NewConsensusTime(sink, logger),
	}

	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := available[name]; !ok {
			logger.Warnw("chain.modules names an unknown module, skipping", "module", name)
			continue
		}
		wanted[name] = true
	}

	var enabled []modules.Module
	for _, name := range []string{"staking", "governance", "consensus-time"} {
		if wanted[name] {
			enabled = append(enabled, available[name])
		}
	}
	return enabled
}

// seedGenesis loads the genesis validator set and its height-0 voting powers
// once at startup, ahead of backfill, and saves them through the sink.
// Pre-commit resolution does not read these rows; workers resolve signers
// against the validator set fetched for each height.
func seedGenesis(ctx context.Context, path string, sink *db.Sink, logger *zap.SugaredLogger) error {
	validators, powers, err := client.GenesisValidators(path)
	if err != nil {
		return err
	}
	if err := sink.SaveValidatorSet(ctx, validators); err != nil {
		return err
	}
	if err := sink.SaveValidatorVotingPowers(ctx, powers); err != nil {
		return err
	}
	logger.Infow("seeded genesis validator set", "validators", len(validators))
	return nil
}
