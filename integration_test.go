//go:build integration
// +build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package nftstore_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/nftstore"
	"github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore/ddb"
	"github.com/suparena/nftstore/errors"
)

func setupRegistry(t *testing.T) *nftstore.Registry {
	tableName := os.Getenv("DDB_TEST_TABLE_NAME")
	if tableName == "" {
		t.Skip("DDB_TEST_TABLE_NAME not set, skipping integration test")
	}

	ctx := context.Background()
	store, err := ddb.NewDynamodbDataStore(ctx, config.DynamoDB{
		AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		Region:    os.Getenv("AWS_REGION"),
		Endpoint:  os.Getenv("AWS_DDB_ENDPOINT"),
		Table:     tableName,
	})
	require.NoError(t, err)
	require.NoError(t, store.CreateTable(ctx, 2*time.Minute))

	reg, err := nftstore.New(ctx, store, nftstore.WithContractOwner("integration"))
	require.NoError(t, err)
	return reg
}

func TestIntegrationRegistry(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	reg := setupRegistry(t)

	suffix := time.Now().UnixNano()
	owner := fmt.Sprintf("owner-%d", suffix)
	title := "integration"

	for i := 0; i < 3; i++ {
		_, err := reg.Mint(ctx, owner, nftstore.MintRequest{
			TokenID: fmt.Sprintf("tok-%d-%d", suffix, i),
			Title:   &title,
		})
		require.NoError(t, err)
	}

	tokens, err := reg.GetTokensPerOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, tokens, 3)

	_, err = reg.Mint(ctx, "someone-else", nftstore.MintRequest{TokenID: tokens[0].TokenID})
	assert.True(t, errors.IsDuplicateMint(err), "expected duplicate mint, got %v", err)

	md, err := reg.GetTokenMetadataByID(ctx, tokens[0].TokenID)
	require.NoError(t, err)
	assert.Equal(t, title, *md.Title)

	_, err = reg.GetTokensPerOwner(ctx, fmt.Sprintf("nobody-%d", suffix))
	assert.True(t, errors.IsNotFound(err))
}
