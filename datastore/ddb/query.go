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
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// queryMembers pages through the members of the set stored under pk and
// calls fn for each of them.
func (d *DynamodbDataStore) queryMembers(ctx context.Context, pk string, fn func(ownerTokenItem)) error {
	input := &sdk.QueryInput{
		TableName:              &d.tableName,
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
			":sk": &types.AttributeValueMemberS{Value: memberSKPrefix},
		},
		ConsistentRead: aws.Bool(true),
		Limit:          aws.Int32(d.options.PageSize),
	}

	for {
		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		out, err := d.queryWithRetry(ctx, input)
		if err != nil {
			return fmt.Errorf("query error: %w", err)
		}

		for _, item := range out.Items {
			if et := entityTypeOf(item); et != entityOwnerToken {
				return fmt.Errorf("unexpected EntityType %q in owner set %s", et, pk)
			}
			var member ownerTokenItem
			if err := attributevalue.UnmarshalMap(item, &member); err != nil {
				return fmt.Errorf("failed to unmarshal owner set member: %w", err)
			}
			fn(member)
		}

		if len(out.LastEvaluatedKey) == 0 {
			return nil
		}
		input.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// queryWithRetry executes a query, retrying throttling and transient errors
func (d *DynamodbDataStore) queryWithRetry(ctx context.Context, input *sdk.QueryInput) (*sdk.QueryOutput, error) {
	var lastErr error

	for attempt := 0; attempt <= d.options.MaxRetries; attempt++ {
		// Check context before retry
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		out, err := d.client.Query(ctx, input)
		if err == nil {
			return out, nil
		}

		lastErr = err

		if !isRetryableError(err) {
			return nil, err
		}

		// Don't sleep after last attempt
		if attempt < d.options.MaxRetries {
			backoff := time.Duration(attempt+1) * d.options.RetryBackoff
			log.Debugf("retrying query after %s: %s", backoff, err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	return nil, fmt.Errorf("query failed after %d retries: %w", d.options.MaxRetries, lastErr)
}

// isRetryableError determines if a DynamoDB error is retryable. The SDK
// wraps service errors in an OperationError, so every check unwraps.
func isRetryableError(err error) bool {
	var (
		throughput *types.ProvisionedThroughputExceededException
		limit      *types.RequestLimitExceeded
		internal   *types.InternalServerError
	)
	switch {
	case errors.As(err, &throughput), errors.As(err, &limit), errors.As(err, &internal):
		return true
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "ThrottlingException", "ProvisionedThroughputExceededException",
			"RequestLimitExceeded", "InternalServerError", "ServiceUnavailable":
			return true
		}
	}

	// Check for AWS SDK retryable errors
	var retryable interface{ RetryableError() bool }
	if errors.As(err, &retryable) {
		return retryable.RetryableError()
	}
	var legacy interface{ IsRetryable() bool }
	if errors.As(err, &legacy) {
		return legacy.IsRetryable()
	}

	return false
}
