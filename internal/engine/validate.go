// =============================================
// File: internal/engine/validate.go
// =============================================
package engine

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// feeBufferSol is the estimated network fee reserved per transaction when
// checking balances. Decimal arithmetic avoids the float drift that made
// near-exact balances pass validation and then fail on chain.
var feeBufferSol = decimal.RequireFromString("0.01")

func validateAddress(addr string) error {
	if addr == "" {
		return fmt.Errorf("address is empty")
	}
	if _, err := solana.PublicKeyFromBase58(addr); err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	return nil
}

func validateAmount(label string, amountSol float64) error {
	if amountSol <= 0 {
		return fmt.Errorf("%s must be positive, got %v", label, amountSol)
	}
	return nil
}

// checkBalance verifies the wallet can cover the spend plus a fee buffer
// per expected transaction. A zero balance means the caller did not supply
// one, and the check is skipped.
func checkBalance(balanceSol, spendSol float64, txCount int) error {
	if balanceSol <= 0 {
		return nil
	}
	balance := decimal.NewFromFloat(balanceSol)
	need := decimal.NewFromFloat(spendSol).
		Add(feeBufferSol.Mul(decimal.NewFromInt(int64(txCount))))
	if balance.LessThan(need) {
		return fmt.Errorf("insufficient balance: have %s SOL, need %s SOL (incl. fee buffer)",
			balance.String(), need.String())
	}
	return nil
}

func validateSlippage(pct float64) error {
	if pct < 0 || pct > 100 {
		return fmt.Errorf("slippage must be within [0, 100], got %v", pct)
	}
	return nil
}
