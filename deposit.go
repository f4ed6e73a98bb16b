/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package nftstore

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/suparena/nftstore/errors"
)

// DepositVerifier decides whether the deposit attached to a mint is enough.
// It runs before anything is written.
type DepositVerifier interface {
	VerifyDeposit(ctx context.Context, signer string, attached decimal.Decimal) error
}

// DepositVerifierFunc adapts a function to DepositVerifier
type DepositVerifierFunc func(ctx context.Context, signer string, attached decimal.Decimal) error

func (f DepositVerifierFunc) VerifyDeposit(ctx context.Context, signer string, attached decimal.Decimal) error {
	return f(ctx, signer, attached)
}

// AcceptAnyDeposit is the default verifier
var AcceptAnyDeposit DepositVerifier = DepositVerifierFunc(func(context.Context, string, decimal.Decimal) error {
	return nil
})

// MinimumDeposit rejects deposits lower than minimum
func MinimumDeposit(minimum decimal.Decimal) DepositVerifier {
	return DepositVerifierFunc(func(ctx context.Context, signer string, attached decimal.Decimal) error {
		if attached.LessThan(minimum) {
			return errors.NewDepositError(minimum.String(), attached.String())
		}
		return nil
	})
}
