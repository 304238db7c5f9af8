package whitelist

import (
	"context"
	"fmt"

	"github.com/AlexZinkM/phantom-waitlist/internal/common"
)

// BalanceReader reads a wallet's SOL balance.
type BalanceReader interface {
	GetSOLBalanceLamports(ctx context.Context, address string) (uint64, error)
}

// BalanceRule admits wallets holding at least a minimum SOL balance.
type BalanceRule struct {
	reader      BalanceReader
	minLamports uint64
}

// NewBalanceRule parses minSOL (e.g. "0.05") into a rule.
func NewBalanceRule(reader BalanceReader, minSOL string) (*BalanceRule, error) {
	lamports, err := common.SOLToLamports(minSOL)
	if err != nil {
		return nil, fmt.Errorf("invalid minimum SOL balance %q: %w", minSOL, err)
	}
	return &BalanceRule{reader: reader, minLamports: lamports}, nil
}

// Check implements Eligibility.
func (r *BalanceRule) Check(ctx context.Context, walletAddress string) error {
	lamports, err := r.reader.GetSOLBalanceLamports(ctx, walletAddress)
	if err != nil {
		return err
	}
	if lamports < r.minLamports {
		return fmt.Errorf("%w: hold at least %s SOL to join", ErrNotEligible, common.LamportsToSOL(r.minLamports))
	}
	return nil
}
