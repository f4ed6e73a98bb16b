/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package nftstore

import (
	"context"
	"fmt"
	"sort"

	golog "github.com/ipfs/go-log"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/suparena/nftstore/cache"
	"github.com/suparena/nftstore/datastore"
	"github.com/suparena/nftstore/errors"
	"github.com/suparena/nftstore/storagemodels"
)

var log = golog.Logger("nftstore")

// TracerName is the instrumentation name of the default tracer
const TracerName = "github.com/suparena/nftstore"

// MintRequest carries the caller-supplied fields of a mint.
type MintRequest struct {
	TokenID     string
	Title       *string
	Description *string
	Media       *string
	// Deposit is the amount attached to the call by the hosting environment.
	Deposit decimal.Decimal
}

// Registry mints tokens and answers lookups over a DataStore.
// It is safe for concurrent use.
type Registry struct {
	store    datastore.DataStore
	deposits DepositVerifier
	cache    *cache.TokenCache
	tracer   trace.Tracer

	contractOwner    string
	contractMetadata storagemodels.ContractMetadata
}

// Option configures a Registry
type Option func(*Registry)

// WithDepositVerifier sets the mint precondition
func WithDepositVerifier(v DepositVerifier) Option {
	return func(r *Registry) {
		if v != nil {
			r.deposits = v
		}
	}
}

// WithCache enables read-through caching of tokens and metadata
func WithCache(c *cache.TokenCache) Option {
	return func(r *Registry) {
		r.cache = c
	}
}

// WithTracer sets the tracer used for registry spans
func WithTracer(t trace.Tracer) Option {
	return func(r *Registry) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithContractOwner sets the owner recorded when the contract is first initialized
func WithContractOwner(owner string) Option {
	return func(r *Registry) {
		r.contractOwner = owner
	}
}

// WithContractMetadata sets the metadata recorded when the contract is first initialized
func WithContractMetadata(md storagemodels.ContractMetadata) Option {
	return func(r *Registry) {
		r.contractMetadata = md
	}
}

// New creates a Registry over store. If the store holds no contract yet, one is
// written from the contract options; otherwise the stored contract is kept.
func New(ctx context.Context, store datastore.DataStore, opts ...Option) (*Registry, error) {
	if store == nil {
		return nil, errors.NewValidationError("store", "must not be nil")
	}

	r := &Registry{
		store:            store,
		deposits:         AcceptAnyDeposit,
		tracer:           otel.Tracer(TracerName),
		contractMetadata: storagemodels.DefaultContractMetadata(),
	}
	for _, opt := range opts {
		opt(r)
	}

	ctx, span := r.tracer.Start(ctx, "nftstore.New")
	defer span.End()

	err := r.store.Update(ctx, func(txn datastore.Txn) error {
		existing, err := txn.GetContract()
		if err != nil {
			return err
		}
		if existing != nil {
			log.Debugf("contract already initialized by %q", existing.OwnerID)
			return nil
		}

		if err := validateID("owner", r.contractOwner); err != nil {
			return err
		}
		if err := r.contractMetadata.Validate(); err != nil {
			return err
		}

		log.Infof("initializing contract %q owned by %q", r.contractMetadata.Name, r.contractOwner)
		return txn.PutContract(&storagemodels.Contract{
			OwnerID:  r.contractOwner,
			Metadata: r.contractMetadata,
		})
	})
	if err != nil {
		return nil, finish(span, fmt.Errorf("initialize contract: %w", err))
	}
	return r, nil
}

// Mint creates token req.TokenID owned by signer. The deposit is checked before
// any write; the three indexes are then written in one transaction.
func (r *Registry) Mint(ctx context.Context, signer string, req MintRequest) (*storagemodels.Token, error) {
	ctx, span := r.tracer.Start(ctx, "nftstore.Mint", trace.WithAttributes(
		attribute.String("token.id", req.TokenID),
		attribute.String("owner.id", signer),
	))
	defer span.End()

	if err := validateID("signer", signer); err != nil {
		return nil, finish(span, err)
	}
	if err := validateID("token_id", req.TokenID); err != nil {
		return nil, finish(span, err)
	}

	if err := r.deposits.VerifyDeposit(ctx, signer, req.Deposit); err != nil {
		log.Debugf("mint of %q by %q rejected: %v", req.TokenID, signer, err)
		return nil, finish(span, err)
	}

	md := storagemodels.TokenMetadata{
		Title:       req.Title,
		Description: req.Description,
		Media:       req.Media,
	}
	token := (&storagemodels.Token{
		TokenID:  req.TokenID,
		OwnerID:  signer,
		Metadata: md,
	}).Clone()

	err := r.store.Update(ctx, func(txn datastore.Txn) error {
		existing, err := txn.GetToken(token.TokenID)
		if err != nil {
			return err
		}
		if existing != nil {
			return errors.NewDuplicateMintError(token.TokenID, existing.OwnerID)
		}
		existingMD, err := txn.GetTokenMetadata(token.TokenID)
		if err != nil {
			return err
		}
		if existingMD != nil {
			return errors.NewDuplicateMintError(token.TokenID, "")
		}

		if err := txn.PutTokenMetadata(token.TokenID, &token.Metadata); err != nil {
			return err
		}
		if err := txn.PutToken(token); err != nil {
			return err
		}

		entry, err := ownerEntry(txn, signer)
		if err != nil {
			return err
		}
		return txn.AddOwnerToken(entry, token.TokenID)
	})
	if err != nil {
		if errors.IsDuplicateMint(err) {
			log.Debugf("mint of %q by %q rejected: %v", req.TokenID, signer, err)
			return nil, finish(span, err)
		}
		return nil, finish(span, fmt.Errorf("mint %q: %w", req.TokenID, err))
	}

	if r.cache != nil {
		r.cache.SetToken(token)
		r.cache.SetMetadata(token.TokenID, &token.Metadata)
	}

	log.Infof("minted token %q for %q", token.TokenID, signer)
	return token.Clone(), nil
}

// ownerEntry returns the owner's index entry, creating it on first use.
func ownerEntry(txn datastore.Txn, owner string) (*storagemodels.OwnerEntry, error) {
	entry, err := txn.GetOwnerEntry(owner)
	if err != nil || entry != nil {
		return entry, err
	}

	entry = storagemodels.NewOwnerEntry(owner)
	if err := txn.PutOwnerEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// GetTokenByID returns the token minted under id
func (r *Registry) GetTokenByID(ctx context.Context, id string) (*storagemodels.Token, error) {
	ctx, span := r.tracer.Start(ctx, "nftstore.GetTokenByID", trace.WithAttributes(
		attribute.String("token.id", id),
	))
	defer span.End()

	if err := validateID("token_id", id); err != nil {
		return nil, finish(span, err)
	}

	load := func(ctx context.Context) (*storagemodels.Token, error) {
		var token *storagemodels.Token
		err := r.store.View(ctx, func(txn datastore.Txn) error {
			var err error
			token, err = txn.GetToken(id)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("get token %q: %w", id, err)
		}
		if token == nil {
			return nil, errors.NewNotFoundError("Token", id)
		}
		return token, nil
	}

	if r.cache != nil {
		token, err := r.cache.Token(ctx, id, load)
		return token, finish(span, err)
	}
	token, err := load(ctx)
	return token, finish(span, err)
}

// GetTokensPerOwner returns the tokens owned by owner sorted by id. An owner
// that never minted gets a NotFoundError.
func (r *Registry) GetTokensPerOwner(ctx context.Context, owner string) ([]*storagemodels.Token, error) {
	ctx, span := r.tracer.Start(ctx, "nftstore.GetTokensPerOwner", trace.WithAttributes(
		attribute.String("owner.id", owner),
	))
	defer span.End()

	if err := validateID("owner", owner); err != nil {
		return nil, finish(span, err)
	}

	tokens := []*storagemodels.Token{}
	err := r.store.View(ctx, func(txn datastore.Txn) error {
		entry, err := txn.GetOwnerEntry(owner)
		if err != nil {
			return err
		}
		if entry == nil {
			return errors.NewNotFoundError("Owner", owner)
		}

		ids, err := txn.ListOwnerTokens(entry)
		if err != nil {
			return err
		}
		sort.Strings(ids)

		for _, id := range ids {
			token, err := txn.GetToken(id)
			if err != nil {
				return err
			}
			if token == nil {
				return errors.NewInconsistencyError(owner, id, "missing from "+storagemodels.PartitionTokenByID)
			}
			if token.OwnerID != owner {
				return errors.NewInconsistencyError(owner, id, fmt.Sprintf("owned by %q", token.OwnerID))
			}
			tokens = append(tokens, token)
		}
		return nil
	})
	if err != nil {
		if errors.IsNotFound(err) || errors.IsInconsistentIndex(err) {
			return nil, finish(span, err)
		}
		return nil, finish(span, fmt.Errorf("get tokens of %q: %w", owner, err))
	}

	span.SetAttributes(attribute.Int("token.count", len(tokens)))
	return tokens, nil
}

// GetTokenMetadataByID returns the metadata recorded for id
func (r *Registry) GetTokenMetadataByID(ctx context.Context, id string) (*storagemodels.TokenMetadata, error) {
	ctx, span := r.tracer.Start(ctx, "nftstore.GetTokenMetadataByID", trace.WithAttributes(
		attribute.String("token.id", id),
	))
	defer span.End()

	if err := validateID("token_id", id); err != nil {
		return nil, finish(span, err)
	}

	load := func(ctx context.Context) (*storagemodels.TokenMetadata, error) {
		var md *storagemodels.TokenMetadata
		err := r.store.View(ctx, func(txn datastore.Txn) error {
			var err error
			md, err = txn.GetTokenMetadata(id)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("get metadata %q: %w", id, err)
		}
		if md == nil {
			return nil, errors.NewNotFoundError("TokenMetadata", id)
		}
		return md, nil
	}

	if r.cache != nil {
		md, err := r.cache.Metadata(ctx, id, load)
		return md, finish(span, err)
	}
	md, err := load(ctx)
	return md, finish(span, err)
}

// Contract returns the contract singleton
func (r *Registry) Contract(ctx context.Context) (*storagemodels.Contract, error) {
	ctx, span := r.tracer.Start(ctx, "nftstore.Contract")
	defer span.End()

	var contract *storagemodels.Contract
	err := r.store.View(ctx, func(txn datastore.Txn) error {
		var err error
		contract, err = txn.GetContract()
		return err
	})
	if err != nil {
		return nil, finish(span, fmt.Errorf("get contract: %w", err))
	}
	if contract == nil {
		return nil, finish(span, errors.NewNotFoundError("Contract", storagemodels.PartitionMetadata))
	}
	return contract, nil
}

// ContractMetadata returns the metadata of the contract
func (r *Registry) ContractMetadata(ctx context.Context) (*storagemodels.ContractMetadata, error) {
	contract, err := r.Contract(ctx)
	if err != nil {
		return nil, err
	}
	return &contract.Metadata, nil
}

// ContractOwner returns the account that initialized the contract
func (r *Registry) ContractOwner(ctx context.Context) (string, error) {
	contract, err := r.Contract(ctx)
	if err != nil {
		return "", err
	}
	return contract.OwnerID, nil
}

func validateID(field, id string) error {
	switch {
	case id == "":
		return errors.NewValidationError(field, "must not be empty")
	case len(id) > storagemodels.MaxIDLength:
		return errors.NewValidationError(field, fmt.Sprintf("longer than %d bytes", storagemodels.MaxIDLength))
	}
	return nil
}

// finish records err on span and returns it unchanged
func finish(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
