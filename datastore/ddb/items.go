/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/nftstore/indexmap"
	"github.com/suparena/nftstore/storagemodels"
)

// Attribute names of the table
const (
	attrPK         = "PK"
	attrSK         = "SK"
	attrEntityType = "EntityType"
)

// EntityType values stored with every item
const (
	entityToken         = "Token"
	entityTokenMetadata = "TokenMetadata"
	entityOwnerEntry    = "OwnerEntry"
	entityOwnerToken    = "OwnerToken"
	entityContract      = "Contract"
)

// memberSKPrefix starts the sort key of every owner set member.
const memberSKPrefix = "member#"

// metadataItem stores TokenMetadata under its token id
type metadataItem struct {
	TokenID  string
	Metadata storagemodels.TokenMetadata
}

// ownerTokenItem is one member of an owner's token set
type ownerTokenItem struct {
	Prefix  string
	TokenID string
}

func init() {
	tokenPK := storagemodels.PartitionTokenByID + "#{TokenID}"
	indexmap.Register[storagemodels.Token](map[string]string{attrPK: tokenPK, attrSK: tokenPK})

	metadataPK := storagemodels.PartitionTokenMetadataByID + "#{TokenID}"
	indexmap.Register[metadataItem](map[string]string{attrPK: metadataPK, attrSK: metadataPK})

	ownerPK := storagemodels.PartitionTokensPerOwner + "#{OwnerID}"
	indexmap.Register[storagemodels.OwnerEntry](map[string]string{attrPK: ownerPK, attrSK: ownerPK})

	indexmap.Register[ownerTokenItem](map[string]string{
		attrPK: storagemodels.PartitionTokensPerOwner + "#{Prefix}",
		attrSK: memberSKPrefix + "{TokenID}",
	})

	indexmap.Register[storagemodels.Contract](map[string]string{
		attrPK: storagemodels.PartitionMetadata,
		attrSK: storagemodels.PartitionMetadata,
	})
}

// keyFor builds the primary key of the item that value would be stored as.
func keyFor[T any](value T) (map[string]types.AttributeValue, error) {
	m, err := indexmap.MustGet[T]()
	if err != nil {
		return nil, err
	}
	expanded, err := indexmap.Expand(m, value)
	if err != nil {
		return nil, err
	}
	return buildKeyFromExpanded(expanded)
}

// itemFor marshals value and adds its expanded keys and EntityType.
func itemFor[T any](entityType string, value T) (map[string]types.AttributeValue, error) {
	m, err := indexmap.MustGet[T]()
	if err != nil {
		return nil, err
	}

	av, err := attributevalue.MarshalMap(value)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}

	expanded, err := indexmap.Expand(m, value)
	if err != nil {
		return nil, err
	}
	if _, err := buildKeyFromExpanded(expanded); err != nil {
		return nil, err
	}

	for k, v := range expanded {
		av[k] = &types.AttributeValueMemberS{Value: v}
	}
	av[attrEntityType] = &types.AttributeValueMemberS{Value: entityType}
	return av, nil
}

// buildKeyFromExpanded builds a DynamoDB key from the expanded index map.
// It requires non-empty values for "PK" and "SK".
func buildKeyFromExpanded(expanded map[string]string) (map[string]types.AttributeValue, error) {
	pk, okPK := expanded[attrPK]
	sk, okSK := expanded[attrSK]

	if !okPK || !okSK || pk == "" || sk == "" {
		return nil, fmt.Errorf("expanded index map missing valid PK or SK")
	}

	return map[string]types.AttributeValue{
		attrPK: &types.AttributeValueMemberS{Value: pk},
		attrSK: &types.AttributeValueMemberS{Value: sk},
	}, nil
}

// entityTypeOf returns the EntityType attribute of item, or "".
func entityTypeOf(item map[string]types.AttributeValue) string {
	if s, ok := item[attrEntityType].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

// stringAttr returns the string attribute name of item, or "".
func stringAttr(item map[string]types.AttributeValue, name string) string {
	if s, ok := item[name].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}
