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
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// CreateTable creates the single table with string PK and SK keys and
// on-demand billing. An existing table is not an error. A positive wait blocks
// until the table is active or the duration has passed.
func CreateTable(ctx context.Context, client Client, tableName string, wait time.Duration) error {
	_, err := client.CreateTable(ctx, &sdk.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String(attrPK), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String(attrSK), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String(attrPK), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String(attrSK), KeyType: types.KeyTypeRange},
		},
		BillingMode: types.BillingModePayPerRequest,
	})

	var inUse *types.ResourceInUseException
	switch {
	case errors.As(err, &inUse):
		log.Infof("table %s already exists", tableName)
	case err != nil:
		return fmt.Errorf("CreateTable failed: %w", err)
	default:
		log.Infof("created table %s", tableName)
	}

	if wait <= 0 {
		return nil
	}
	waiter := sdk.NewTableExistsWaiter(client)
	if err := waiter.Wait(ctx, &sdk.DescribeTableInput{TableName: aws.String(tableName)}, wait); err != nil {
		return fmt.Errorf("table %s not active: %w", tableName, err)
	}
	return nil
}

// CreateTable creates the datastore's own table.
func (d *DynamodbDataStore) CreateTable(ctx context.Context, wait time.Duration) error {
	return CreateTable(ctx, d.client, d.tableName, wait)
}
