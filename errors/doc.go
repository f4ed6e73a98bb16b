/*
Package errors provides semantic error types for the nftstore registry.

Every lookup failure is an explicit, typed error so that callers can tell
"absent" apart from "empty". The package defines sentinels that can be
checked with the standard errors.Is() or with the provided helpers.

Common Errors:

	var (
	    ErrNotFound            = errors.New("record not found")
	    ErrAlreadyExists       = errors.New("record already exists")
	    ErrDuplicateMint       = errors.New("token already minted")
	    ErrDepositInsufficient = errors.New("deposit insufficient")
	    ErrInvalidInput        = errors.New("invalid input")
	    ErrConditionFailed     = errors.New("condition check failed")
	    ErrInconsistentIndex   = errors.New("inconsistent index")
	    ErrNoIndexMap          = errors.New("no index map found for type")
	)

Usage:

	token, err := reg.GetTokenByID(ctx, "tok-1")
	if err != nil {
	    if errors.IsNotFound(err) {
	        // never minted
	    }
	    return nil, err
	}

	_, err = reg.Mint(ctx, "bob", nftstore.MintRequest{TokenID: "tok-1"})
	if errors.IsDuplicateMint(err) {
	    // id already taken, nothing was written
	}

The error types implement the error interface and support wrapping, so they
still match after fmt.Errorf("...: %w", err).
*/
package errors
