/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	golog "github.com/ipfs/go-log"

	nftconfig "github.com/suparena/nftstore/config"
	"github.com/suparena/nftstore/datastore"
	nfterrors "github.com/suparena/nftstore/errors"
	"github.com/suparena/nftstore/storagemodels"
)

var log = golog.Logger("nftstore/dynamodb")

// DriverName is the name the DynamoDB backend registers under
const DriverName = "dynamodb"

func init() {
	if err := datastore.Register(DriverName, func(ctx context.Context, cfg nftconfig.Backend) (datastore.DataStore, error) {
		return NewDynamodbDataStore(ctx, cfg.DynamoDB)
	}); err != nil {
		panic(err)
	}
}

// Client is the subset of the DynamoDB API the backend uses. *dynamodb.Client
// implements it.
type Client interface {
	GetItem(ctx context.Context, params *sdk.GetItemInput, optFns ...func(*sdk.Options)) (*sdk.GetItemOutput, error)
	Query(ctx context.Context, params *sdk.QueryInput, optFns ...func(*sdk.Options)) (*sdk.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *sdk.TransactWriteItemsInput, optFns ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error)
	CreateTable(ctx context.Context, params *sdk.CreateTableInput, optFns ...func(*sdk.Options)) (*sdk.CreateTableOutput, error)
	DescribeTable(ctx context.Context, params *sdk.DescribeTableInput, optFns ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error)
}

// DynamodbDataStore implements datastore.DataStore on a single DynamoDB table.
type DynamodbDataStore struct {
	client    Client
	tableName string
	options   storagemodels.QueryOptions
}

// NewDynamoDBClient initializes a DynamoDB client. Static credentials are used
// when an access key is configured, the default AWS chain otherwise.
func NewDynamoDBClient(ctx context.Context, cfg nftconfig.DynamoDB) (*sdk.Client, error) {
	var loadOpts []func(*config.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := sdk.NewFromConfig(awsCfg, func(o *sdk.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	log.Infof("DynamoDB client initialized for table: %s in region: %s", cfg.Table, awsCfg.Region)
	return client, nil
}

// NewDynamodbDataStore creates a client from cfg and wraps it in a datastore.
func NewDynamodbDataStore(ctx context.Context, cfg nftconfig.DynamoDB) (*DynamodbDataStore, error) {
	if cfg.Table == "" {
		return nil, nfterrors.NewValidationError("table", "DynamoDB table name is required")
	}
	client, err := NewDynamoDBClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create DynamoDB client: %w", err)
	}
	return New(client, cfg.Table, cfg.QueryOptions()...), nil
}

// New wraps an existing client.
func New(client Client, tableName string, opts ...storagemodels.QueryOption) *DynamodbDataStore {
	options := storagemodels.DefaultQueryOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &DynamodbDataStore{
		client:    client,
		tableName: tableName,
		options:   options,
	}
}

// TableName returns the table the datastore reads and writes.
func (d *DynamodbDataStore) TableName() string {
	return d.tableName
}

// View runs fn with consistent reads. DynamoDB offers no read snapshot across
// items, so each read sees the latest committed value.
func (d *DynamodbDataStore) View(ctx context.Context, fn func(datastore.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(newTxn(ctx, d, true))
}

// Update runs fn, then commits its writes in one TransactWriteItems call.
// When the commit loses a race on an owner entry or the contract, fn runs
// again so it can observe the record the other writer created.
func (d *DynamodbDataStore) Update(ctx context.Context, fn func(datastore.Txn) error) error {
	var lastErr error

	for attempt := 0; attempt <= d.options.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * d.options.RetryBackoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		t := newTxn(ctx, d, false)
		if err := fn(t); err != nil {
			return err
		}

		err := t.commit()
		if !errors.Is(err, errConflict) {
			return err
		}
		lastErr = err
		log.Debugf("dynamodb transaction conflict, attempt %d: %s", attempt+1, err)
	}

	return nfterrors.NewConditionFailedError("update",
		fmt.Sprintf("conflict persisted after %d retries: %s", d.options.MaxRetries, lastErr))
}

// Close releases nothing. The SDK client has no connection to close.
func (d *DynamodbDataStore) Close() error {
	return nil
}
