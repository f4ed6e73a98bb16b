/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/smithy-go"
)

// fakeClient is an in-process table that understands the calls the backend makes
type fakeClient struct {
	mu     sync.Mutex
	items  map[string]map[string]types.AttributeValue
	tables map[string]bool

	queryErrs     []error
	queryCalls    int
	transactCalls int
	tokens        []string
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		items:  make(map[string]map[string]types.AttributeValue),
		tables: make(map[string]bool),
	}
}

func attrS(item map[string]types.AttributeValue, name string) string {
	if v, ok := item[name].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func fakeKey(item map[string]types.AttributeValue) string {
	return attrS(item, "PK") + "\x00" + attrS(item, "SK")
}

func copyItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (f *fakeClient) GetItem(ctx context.Context, in *sdk.GetItemInput, _ ...func(*sdk.Options)) (*sdk.GetItemOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	item, ok := f.items[fakeKey(in.Key)]
	if !ok {
		return &sdk.GetItemOutput{}, nil
	}
	return &sdk.GetItemOutput{Item: copyItem(item)}, nil
}

func (f *fakeClient) Query(ctx context.Context, in *sdk.QueryInput, _ ...func(*sdk.Options)) (*sdk.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queryCalls++
	if len(f.queryErrs) > 0 {
		err := f.queryErrs[0]
		f.queryErrs = f.queryErrs[1:]
		return nil, err
	}

	pk := attrS(in.ExpressionAttributeValues, ":pk")
	skPrefix := attrS(in.ExpressionAttributeValues, ":sk")

	var matched []map[string]types.AttributeValue
	for _, item := range f.items {
		if attrS(item, "PK") == pk && strings.HasPrefix(attrS(item, "SK"), skPrefix) {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return attrS(matched[i], "SK") < attrS(matched[j], "SK") })

	if in.ExclusiveStartKey != nil {
		start := attrS(in.ExclusiveStartKey, "SK")
		i := sort.Search(len(matched), func(i int) bool { return attrS(matched[i], "SK") > start })
		matched = matched[i:]
	}

	out := &sdk.QueryOutput{}
	limit := int(aws.ToInt32(in.Limit))
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
		last := matched[limit-1]
		out.LastEvaluatedKey = map[string]types.AttributeValue{"PK": last["PK"], "SK": last["SK"]}
	}
	for _, item := range matched {
		out.Items = append(out.Items, copyItem(item))
	}
	out.Count = int32(len(out.Items))
	return out, nil
}

func (f *fakeClient) TransactWriteItems(ctx context.Context, in *sdk.TransactWriteItemsInput, _ ...func(*sdk.Options)) (*sdk.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.transactCalls++
	f.tokens = append(f.tokens, aws.ToString(in.ClientRequestToken))

	for _, ti := range in.TransactItems {
		if ti.Put == nil {
			continue
		}
		if len(attrS(ti.Put.Item, "PK")) > 2048 || len(attrS(ti.Put.Item, "SK")) > 1024 {
			return nil, &smithy.GenericAPIError{
				Code:    "ValidationException",
				Message: "One or more parameter values were invalid: Aggregated size of all range keys has exceeded the size limit of 1024 bytes",
			}
		}
	}

	reasons := make([]types.CancellationReason, len(in.TransactItems))
	failed := false
	for i, ti := range in.TransactItems {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
		put := ti.Put
		if put == nil {
			continue
		}
		if aws.ToString(put.ConditionExpression) == "attribute_not_exists(PK)" {
			if _, exists := f.items[fakeKey(put.Item)]; exists {
				reasons[i] = types.CancellationReason{
					Code:    aws.String("ConditionalCheckFailed"),
					Message: aws.String("The conditional request failed"),
				}
				failed = true
			}
		}
	}
	if failed {
		return nil, &types.TransactionCanceledException{
			Message:             aws.String("Transaction cancelled, please refer cancellation reasons for specific reasons"),
			CancellationReasons: reasons,
		}
	}

	for _, ti := range in.TransactItems {
		if ti.Put != nil {
			f.items[fakeKey(ti.Put.Item)] = copyItem(ti.Put.Item)
		}
	}
	return &sdk.TransactWriteItemsOutput{}, nil
}

func (f *fakeClient) CreateTable(ctx context.Context, in *sdk.CreateTableInput, _ ...func(*sdk.Options)) (*sdk.CreateTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(in.TableName)
	if f.tables[name] {
		return nil, &types.ResourceInUseException{Message: aws.String("Table already exists: " + name)}
	}
	f.tables[name] = true
	return &sdk.CreateTableOutput{TableDescription: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusCreating,
		KeySchema:   in.KeySchema,
	}}, nil
}

func (f *fakeClient) DescribeTable(ctx context.Context, in *sdk.DescribeTableInput, _ ...func(*sdk.Options)) (*sdk.DescribeTableOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	name := aws.ToString(in.TableName)
	if !f.tables[name] {
		return nil, &types.ResourceNotFoundException{Message: aws.String("Requested resource not found")}
	}
	return &sdk.DescribeTableOutput{Table: &types.TableDescription{
		TableName:   in.TableName,
		TableStatus: types.TableStatusActive,
	}}, nil
}

func (f *fakeClient) itemCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}
