// =============================
// File: internal/txcodec/signer.go
// =============================
package txcodec

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/wallet"
)

// Signer completes the local-signature step of the bundling pipeline:
// decode, match declared required signers against held keypairs, sign,
// re-encode. Backend-presigned signatures are preserved untouched.
type Signer struct {
	logger *zap.Logger
}

func NewSigner(logger *zap.Logger) *Signer {
	return &Signer{logger: logger.Named("signer")}
}

// Sign adds every available required signature to an encoded transaction.
//
// The returned string equals the input when the transaction is already
// fully signed, or when no held keypair matches any required signer. The
// no-match case is logged as a warning, never an error; callers compare
// output to input to detect the no-op.
func (s *Signer) Sign(encoded string, ring wallet.Keyring) (string, error) {
	tx, enc, err := Decode(encoded)
	if err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}

	if FullySigned(tx) {
		return encoded, nil
	}

	required := RequiredSigners(tx)
	matched := 0
	for _, key := range required {
		if ring.Get(key) != nil {
			matched++
		}
	}
	if matched == 0 {
		s.logger.Warn("no matching signer for transaction",
			zap.Int("required_signers", len(required)),
			zap.Int("available_keypairs", len(ring)),
			zap.String("encoding", enc.String()))
		return encoded, nil
	}

	if _, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		return ring.Get(key)
	}); err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	out, err := Encode(tx, enc)
	if err != nil {
		return "", err
	}

	s.logger.Debug("signed transaction",
		zap.Int("matched_signers", matched),
		zap.Int("required_signers", len(required)),
		zap.Bool("fully_signed", FullySigned(tx)))
	return out, nil
}

// SignError names the batch position that failed to sign, letting
// callers decide whether the position makes the failure fatal.
type SignError struct {
	Index int
	Err   error
}

func (e SignError) Error() string {
	return fmt.Sprintf("transaction %d: %v", e.Index, e.Err)
}

func (e SignError) Unwrap() error { return e.Err }

// SignAll signs a batch in order. Per-transaction failures are collected
// rather than aborting the batch; failed entries keep their original
// encoding in the output slice so callers can decide to skip them.
func (s *Signer) SignAll(encoded []string, ring wallet.Keyring) ([]string, []SignError) {
	out := make([]string, len(encoded))
	var errs []SignError
	for i, e := range encoded {
		signed, err := s.Sign(e, ring)
		if err != nil {
			s.logger.Warn("skipping unsignable transaction",
				zap.Int("index", i), zap.Error(err))
			out[i] = e
			errs = append(errs, SignError{Index: i, Err: err})
			continue
		}
		out[i] = signed
	}
	return out, errs
}
