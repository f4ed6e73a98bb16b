/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	sdk "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/suparena/nftstore/datastore"
	nfterrors "github.com/suparena/nftstore/errors"
	"github.com/suparena/nftstore/storagemodels"
)

// errConflict marks a commit that lost a race and may be retried.
var errConflict = errors.New("ddb: conflicting transaction")

const createOnly = "attribute_not_exists(PK)"

// DynamoDB key size limits in bytes
const (
	maxPartitionKeyBytes = 2048
	maxSortKeyBytes      = 1024
)

// pendingWrite is one Put of the transaction
type pendingWrite struct {
	entityType string
	item       map[string]types.AttributeValue
	createOnly bool
}

type txn struct {
	ctx      context.Context
	store    *DynamodbDataStore
	readOnly bool

	writes map[string]*pendingWrite
	order  []string
}

func newTxn(ctx context.Context, store *DynamodbDataStore, readOnly bool) *txn {
	return &txn{
		ctx:      ctx,
		store:    store,
		readOnly: readOnly,
		writes:   make(map[string]*pendingWrite),
	}
}

func writeKey(pk, sk string) string {
	return pk + "\x00" + sk
}

// get reads one item, preferring a write staged in this transaction.
func (t *txn) get(key map[string]types.AttributeValue, out any) (bool, error) {
	pk := key[attrPK].(*types.AttributeValueMemberS).Value
	sk := key[attrSK].(*types.AttributeValueMemberS).Value

	item := map[string]types.AttributeValue(nil)
	if w, ok := t.writes[writeKey(pk, sk)]; ok {
		item = w.item
	} else {
		res, err := t.store.client.GetItem(t.ctx, &sdk.GetItemInput{
			TableName:      &t.store.tableName,
			Key:            key,
			ConsistentRead: aws.Bool(true),
		})
		if err != nil {
			return false, fmt.Errorf("GetItem error: %w", err)
		}
		item = res.Item
	}
	if item == nil {
		return false, nil
	}
	if err := attributevalue.UnmarshalMap(item, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	return true, nil
}

func (t *txn) put(entityType string, item map[string]types.AttributeValue, createOnly bool) error {
	if t.readOnly {
		return datastore.ErrReadOnly
	}
	pk, sk := stringAttr(item, attrPK), stringAttr(item, attrSK)
	if len(pk) > maxPartitionKeyBytes || len(sk) > maxSortKeyBytes {
		return nfterrors.NewValidationError(attrSK, fmt.Sprintf("%s key of %d bytes exceeds the DynamoDB limit of %d", entityType, len(sk), maxSortKeyBytes))
	}
	k := writeKey(pk, sk)
	if _, exists := t.writes[k]; !exists {
		t.order = append(t.order, k)
	}
	t.writes[k] = &pendingWrite{entityType: entityType, item: item, createOnly: createOnly}
	return nil
}

func (t *txn) GetToken(id string) (*storagemodels.Token, error) {
	key, err := keyFor(storagemodels.Token{TokenID: id})
	if err != nil {
		return nil, err
	}
	var token storagemodels.Token
	ok, err := t.get(key, &token)
	if err != nil || !ok {
		return nil, err
	}
	return &token, nil
}

func (t *txn) PutToken(token *storagemodels.Token) error {
	if token == nil {
		return fmt.Errorf("nil token")
	}
	item, err := itemFor(entityToken, *token)
	if err != nil {
		return err
	}
	return t.put(entityToken, item, true)
}

func (t *txn) GetTokenMetadata(id string) (*storagemodels.TokenMetadata, error) {
	key, err := keyFor(metadataItem{TokenID: id})
	if err != nil {
		return nil, err
	}
	var md metadataItem
	ok, err := t.get(key, &md)
	if err != nil || !ok {
		return nil, err
	}
	return &md.Metadata, nil
}

func (t *txn) PutTokenMetadata(id string, md *storagemodels.TokenMetadata) error {
	if md == nil {
		return fmt.Errorf("nil metadata for token %q", id)
	}
	item, err := itemFor(entityTokenMetadata, metadataItem{TokenID: id, Metadata: *md})
	if err != nil {
		return err
	}
	return t.put(entityTokenMetadata, item, true)
}

func (t *txn) GetOwnerEntry(owner string) (*storagemodels.OwnerEntry, error) {
	key, err := keyFor(storagemodels.OwnerEntry{OwnerID: owner})
	if err != nil {
		return nil, err
	}
	var entry storagemodels.OwnerEntry
	ok, err := t.get(key, &entry)
	if err != nil || !ok {
		return nil, err
	}
	return &entry, nil
}

func (t *txn) PutOwnerEntry(entry *storagemodels.OwnerEntry) error {
	if entry == nil {
		return fmt.Errorf("nil owner entry")
	}
	item, err := itemFor(entityOwnerEntry, *entry)
	if err != nil {
		return err
	}
	return t.put(entityOwnerEntry, item, true)
}

func (t *txn) ListOwnerTokens(entry *storagemodels.OwnerEntry) ([]string, error) {
	key, err := keyFor(ownerTokenItem{Prefix: entry.Prefix})
	if err != nil {
		return nil, err
	}
	pk := key[attrPK].(*types.AttributeValueMemberS).Value

	seen := make(map[string]struct{})
	ids := []string{}
	err = t.store.queryMembers(t.ctx, pk, func(item ownerTokenItem) {
		if _, dup := seen[item.TokenID]; !dup {
			seen[item.TokenID] = struct{}{}
			ids = append(ids, item.TokenID)
		}
	})
	if err != nil {
		return nil, err
	}

	for _, k := range t.order {
		w := t.writes[k]
		if w.entityType != entityOwnerToken || stringAttr(w.item, attrPK) != pk {
			continue
		}
		id := stringAttr(w.item, "TokenID")
		if _, dup := seen[id]; !dup {
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (t *txn) AddOwnerToken(entry *storagemodels.OwnerEntry, id string) error {
	item, err := itemFor(entityOwnerToken, ownerTokenItem{Prefix: entry.Prefix, TokenID: id})
	if err != nil {
		return err
	}
	return t.put(entityOwnerToken, item, false)
}

func (t *txn) GetContract() (*storagemodels.Contract, error) {
	key, err := keyFor(storagemodels.Contract{})
	if err != nil {
		return nil, err
	}
	var contract storagemodels.Contract
	ok, err := t.get(key, &contract)
	if err != nil || !ok {
		return nil, err
	}
	return &contract, nil
}

func (t *txn) PutContract(contract *storagemodels.Contract) error {
	if contract == nil {
		return fmt.Errorf("nil contract")
	}
	item, err := itemFor(entityContract, *contract)
	if err != nil {
		return err
	}
	return t.put(entityContract, item, true)
}

// commit writes every staged item in one TransactWriteItems call. Records
// other than set members are create-only.
func (t *txn) commit() error {
	if len(t.order) == 0 {
		return nil
	}

	items := make([]types.TransactWriteItem, 0, len(t.order))
	for _, k := range t.order {
		w := t.writes[k]
		put := &types.Put{
			TableName: &t.store.tableName,
			Item:      w.item,
		}
		if w.createOnly {
			put.ConditionExpression = aws.String(createOnly)
		}
		items = append(items, types.TransactWriteItem{Put: put})
	}

	_, err := t.store.client.TransactWriteItems(t.ctx, &sdk.TransactWriteItemsInput{
		TransactItems:      items,
		ClientRequestToken: aws.String(uuid.NewString()),
	})
	if err == nil {
		return nil
	}

	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		var conflict *types.TransactionConflictException
		if errors.As(err, &conflict) {
			return fmt.Errorf("%w: %s", errConflict, err)
		}
		return fmt.Errorf("TransactWriteItems failed: %w", err)
	}
	return t.cancellationError(canceled)
}

// cancellationError maps the per item cancellation reasons of a failed commit.
func (t *txn) cancellationError(canceled *types.TransactionCanceledException) error {
	retry := false
	for i, reason := range canceled.CancellationReasons {
		if i >= len(t.order) {
			break
		}
		code := aws.ToString(reason.Code)
		w := t.writes[t.order[i]]

		switch code {
		case "ConditionalCheckFailed":
			switch w.entityType {
			case entityToken, entityTokenMetadata:
				id := stringAttr(w.item, "TokenID")
				return nfterrors.NewDuplicateMintError(id, "")
			case entityOwnerEntry, entityContract:
				retry = true
			default:
				return nfterrors.NewConditionFailedError("commit", createOnly+" on "+stringAttr(w.item, attrPK))
			}
		case "TransactionConflict", "ThrottlingError", "ProvisionedThroughputExceeded":
			retry = true
		}
	}
	if retry {
		return fmt.Errorf("%w: %s", errConflict, aws.ToString(canceled.Message))
	}
	return fmt.Errorf("transaction canceled: %s: %w", strings.TrimSpace(aws.ToString(canceled.Message)), canceled)
}
