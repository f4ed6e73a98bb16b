/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/suparena/nftstore"
	"github.com/suparena/nftstore/datastore"
	"github.com/suparena/nftstore/datastore/ddb"
	"github.com/suparena/nftstore/indexmap"
)

func newInitCmd(a *app) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the contract metadata",
		Long: `Write the contract record on an empty store. The metadata comes from the
contract section of the config file, or the defaults when none is given.
Running init on an initialized store prints the stored contract unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, owner, func(ctx context.Context, reg *nftstore.Registry) (any, error) {
				return reg.Contract(ctx)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "account that owns the contract")
	return cmd
}

func newMintCmd(a *app) *cobra.Command {
	var (
		signer      string
		id          string
		title       string
		description string
		media       string
		deposit     string
	)

	cmd := &cobra.Command{
		Use:   "mint",
		Short: "Mint a token",
		Long: `Mint a token owned by the signer.

Examples:
  nftstore mint --signer alice --id tok-1 --title "First" --media ipfs://...
  nftstore mint --signer alice --id tok-2 --deposit 0.01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := nftstore.MintRequest{TokenID: id}
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("media") {
				req.Media = &media
			}
			if deposit != "" {
				amount, err := decimal.NewFromString(deposit)
				if err != nil {
					return fmt.Errorf("invalid deposit %q: %w", deposit, err)
				}
				req.Deposit = amount
			}

			return a.withRegistry(cmd, "", func(ctx context.Context, reg *nftstore.Registry) (any, error) {
				return reg.Mint(ctx, signer, req)
			})
		},
	}
	cmd.Flags().StringVar(&signer, "signer", "", "account minting the token")
	cmd.Flags().StringVar(&id, "id", "", "token id")
	cmd.Flags().StringVar(&title, "title", "", "token title")
	cmd.Flags().StringVar(&description, "description", "", "token description")
	cmd.Flags().StringVar(&media, "media", "", "token media URL")
	cmd.Flags().StringVar(&deposit, "deposit", "", "deposit attached to the mint")
	_ = cmd.MarkFlagRequired("signer")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newTokenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "token <id>",
		Short: "Show a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, "", func(ctx context.Context, reg *nftstore.Registry) (any, error) {
				return reg.GetTokenByID(ctx, args[0])
			})
		},
	}
}

func newOwnerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "owner <account>",
		Short: "List the tokens of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, "", func(ctx context.Context, reg *nftstore.Registry) (any, error) {
				return reg.GetTokensPerOwner(ctx, args[0])
			})
		},
	}
}

func newMetadataCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metadata <id>",
		Short: "Show the metadata of a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, "", func(ctx context.Context, reg *nftstore.Registry) (any, error) {
				return reg.GetTokenMetadataByID(ctx, args[0])
			})
		},
	}
}

func newContractCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "contract",
		Short: "Show the contract owner and metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withRegistry(cmd, "", func(ctx context.Context, reg *nftstore.Registry) (any, error) {
				return reg.Contract(ctx)
			})
		},
	}
}

func newCreateTableCmd(a *app) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "create-table",
		Short: "Create the DynamoDB table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.Backend.Driver != ddb.DriverName {
				return fmt.Errorf("create-table requires the %s backend, got %q", ddb.DriverName, a.cfg.Backend.Driver)
			}

			ctx := cmd.Context()
			store, err := datastore.Open(ctx, a.cfg.Backend)
			if err != nil {
				return err
			}
			defer store.Close()

			table, ok := store.(*ddb.DynamodbDataStore)
			if !ok {
				return fmt.Errorf("unexpected %T for the %s backend", store, ddb.DriverName)
			}
			if err := table.CreateTable(ctx, wait); err != nil {
				return err
			}
			return printJSON(cmd, map[string]string{"table": table.TableName()})
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Minute, "how long to wait for the table to become active (0 to return immediately)")
	return cmd
}

func newDriversCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drivers",
		Short: "List the registered datastore drivers",
		Args:  cobra.NoArgs,
		// drivers needs no config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, datastore.Drivers())
		},
	}
}

func newIndexMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexmap",
		Short: "Print the DynamoDB key templates of every item type",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, indexmap.All())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "version",
		Short:             "Show version information",
		Args:              cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			return printJSON(cmd, nftstore.GetVersionInfo())
		},
	}
}
