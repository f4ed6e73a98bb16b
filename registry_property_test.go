/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package nftstore

import (
	"context"
	"reflect"
	"sort"
	"testing"

	"pgregory.net/rapid"

	"github.com/suparena/nftstore/datastore/memory"
	"github.com/suparena/nftstore/errors"
	"github.com/suparena/nftstore/storagemodels"
)

var (
	ownerGen = rapid.SampledFrom([]string{"alice", "bob", "carol", "a", "ab"})
	idGen    = rapid.StringMatching(`tok-[a-z0-9]{1,4}`)
	fieldGen = rapid.Ptr(rapid.StringN(0, 16, -1), true)
)

// TestMintProperties mints random tokens and checks every lookup against a
// plain map model after each step.
func TestMintProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.Background()
		reg, err := New(ctx, memory.New(), WithContractOwner("alice"))
		if err != nil {
			t.Fatalf("New: %v", err)
		}

		model := map[string]*storagemodels.Token{}
		owners := map[string][]string{}

		steps := rapid.IntRange(1, 25).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			signer := ownerGen.Draw(t, "signer")
			req := MintRequest{
				TokenID:     idGen.Draw(t, "id"),
				Title:       fieldGen.Draw(t, "title"),
				Description: fieldGen.Draw(t, "description"),
				Media:       fieldGen.Draw(t, "media"),
			}

			_, err := reg.Mint(ctx, signer, req)
			if _, exists := model[req.TokenID]; exists {
				if !errors.IsDuplicateMint(err) {
					t.Fatalf("second mint of %q: expected duplicate mint, got %v", req.TokenID, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("mint %q: %v", req.TokenID, err)
			}

			model[req.TokenID] = &storagemodels.Token{
				TokenID: req.TokenID,
				OwnerID: signer,
				Metadata: storagemodels.TokenMetadata{
					Title:       req.Title,
					Description: req.Description,
					Media:       req.Media,
				},
			}
			owners[signer] = append(owners[signer], req.TokenID)
		}

		for id, want := range model {
			got, err := reg.GetTokenByID(ctx, id)
			if err != nil {
				t.Fatalf("get %q: %v", id, err)
			}
			if !reflect.DeepEqual(want, got) {
				t.Fatalf("token %q: want %+v, got %+v", id, want, got)
			}

			md, err := reg.GetTokenMetadataByID(ctx, id)
			if err != nil {
				t.Fatalf("metadata %q: %v", id, err)
			}
			if !reflect.DeepEqual(&got.Metadata, md) {
				t.Fatalf("metadata %q diverges from token: %+v vs %+v", id, got.Metadata, md)
			}
		}

		for _, owner := range []string{"alice", "bob", "carol", "a", "ab"} {
			first, err := reg.GetTokensPerOwner(ctx, owner)
			ids, minted := owners[owner]
			if !minted {
				if !errors.IsNotFound(err) {
					t.Fatalf("owner %q never minted: expected not found, got %v", owner, err)
				}
				continue
			}
			if err != nil {
				t.Fatalf("tokens of %q: %v", owner, err)
			}

			sort.Strings(ids)
			got := make([]string, 0, len(first))
			for _, token := range first {
				if token.OwnerID != owner {
					t.Fatalf("token %q listed under %q but owned by %q", token.TokenID, owner, token.OwnerID)
				}
				got = append(got, token.TokenID)
			}
			if !reflect.DeepEqual(ids, got) {
				t.Fatalf("tokens of %q: want %v, got %v", owner, ids, got)
			}

			second, err := reg.GetTokensPerOwner(ctx, owner)
			if err != nil || !reflect.DeepEqual(first, second) {
				t.Fatalf("re-query of %q changed result: %v", owner, err)
			}
		}
	})
}
