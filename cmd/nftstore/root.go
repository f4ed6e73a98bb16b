/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	golog "github.com/ipfs/go-log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/suparena/nftstore"
	"github.com/suparena/nftstore/cache"
	nftconfig "github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore"
	_ "github.com/suparena/nftstore/datastore/badgerdb"
	_ "github.com/suparena/nftstore/datastore/ddb"
	_ "github.com/suparena/nftstore/datastore/ldb"
	_ "github.com/suparena/nftstore/datastore/memory"
	"github.com/suparena/nftstore/errors"
)

var log = golog.Logger("nftstore/cli")

var loggers = []string{
	"nftstore",
	"nftstore/cli",
	"nftstore/cache",
	"nftstore/badger",
	"nftstore/leveldb",
	"nftstore/dynamodb",
}

// app holds the state shared by every command of one invocation
type app struct {
	cfgFile string
	backend string
	path    string
	trace   bool

	cfg      *nftconfig.Config
	provider *sdktrace.TracerProvider
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "nftstore",
		Short: "A minimal non-fungible token registry",
		Long: `nftstore mints non-fungible tokens and answers ownership queries.

Tokens are kept in three indexes (tokens_per_owner, token_by_id and
token_metadata_by_id) on a badger, leveldb or DynamoDB backend.
Results are printed as JSON.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.shutdown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (YAML)")
	root.PersistentFlags().StringVarP(&a.backend, "backend", "b", "", "datastore driver (badger, leveldb, dynamodb, memory)")
	root.PersistentFlags().StringVarP(&a.path, "path", "p", "", "database directory for badger and leveldb")
	root.PersistentFlags().BoolVar(&a.trace, "trace", false, "print registry spans to stderr")

	root.AddCommand(
		newInitCmd(a),
		newMintCmd(a),
		newTokenCmd(a),
		newOwnerCmd(a),
		newMetadataCmd(a),
		newContractCmd(a),
		newCreateTableCmd(a),
		newDriversCmd(),
		newIndexMapCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := nftconfig.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.backend != "" {
		cfg.Backend.Driver = a.backend
	}
	if a.path != "" {
		cfg.Backend.Path = a.path
	}
	if a.trace {
		cfg.Trace.Enabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	for _, name := range loggers {
		if err := golog.SetLogLevel(name, cfg.Log.Level); err != nil {
			return fmt.Errorf("set log level %q: %w", cfg.Log.Level, err)
		}
	}

	if cfg.Trace.Enabled {
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint(), stdouttrace.WithWriter(cmd.ErrOrStderr()))
		if err != nil {
			return fmt.Errorf("create stdout exporter: %w", err)
		}
		a.provider = sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		otel.SetTracerProvider(a.provider)
	}
	return nil
}

func (a *app) shutdown(ctx context.Context) error {
	if a.provider == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return a.provider.Shutdown(ctx)
}

// open opens the configured backend and a registry over it. The store must be
// closed by the caller.
func (a *app) open(ctx context.Context, owner string) (*nftstore.Registry, datastore.DataStore, error) {
	store, err := datastore.Open(ctx, a.cfg.Backend)
	if err != nil {
		return nil, nil, err
	}

	if owner == "" {
		owner = a.cfg.Contract.Owner
	}
	opts := []nftstore.Option{nftstore.WithContractOwner(owner)}
	if a.cfg.Contract.Metadata != nil {
		opts = append(opts, nftstore.WithContractMetadata(*a.cfg.Contract.Metadata))
	}

	minimum, err := a.cfg.Deposit.MinimumDecimal()
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	if minimum.IsPositive() {
		opts = append(opts, nftstore.WithDepositVerifier(nftstore.MinimumDeposit(minimum)))
	}
	if a.cfg.Cache.Enabled {
		opts = append(opts, nftstore.WithCache(cache.New(a.cfg.Cache.Expiration, a.cfg.Cache.Cleanup)))
	}
	if a.provider != nil {
		opts = append(opts, nftstore.WithTracer(a.provider.Tracer(nftstore.TracerName)))
	}

	reg, err := nftstore.New(ctx, store, opts...)
	if err != nil {
		store.Close()
		var ve *errors.ValidationError
		if stderrors.As(err, &ve) && ve.Field == "owner" {
			return nil, nil, fmt.Errorf("contract not initialized, run `nftstore init --owner <account>` first: %w", err)
		}
		return nil, nil, err
	}

	log.Debugf("opened %s registry", a.cfg.Backend.Driver)
	return reg, store, nil
}

// withRegistry runs fn against a registry and closes the backend afterwards
func (a *app) withRegistry(cmd *cobra.Command, owner string, fn func(ctx context.Context, reg *nftstore.Registry) (any, error)) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reg, store, err := a.open(ctx, owner)
	if err != nil {
		return err
	}

	result, err := fn(ctx, reg)
	if closeErr := store.Close(); closeErr != nil {
		log.Errorf("closing datastore: %v", closeErr)
	}
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}
