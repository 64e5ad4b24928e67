// =============================
// File: internal/txcodec/codec.go
// =============================
package txcodec

import (
	"encoding/base64"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// Encoding identifies the wire encoding a transaction arrived in. The
// backend is not consistent about which one it uses, so the signer keeps
// track and re-emits in the same encoding.
type Encoding int

const (
	EncodingBase58 Encoding = iota
	EncodingBase64
)

func (e Encoding) String() string {
	if e == EncodingBase64 {
		return "base64"
	}
	return "base58"
}

// Decode deserializes a wire-encoded transaction, trying base58 first and
// falling back to base64.
func Decode(encoded string) (*solana.Transaction, Encoding, error) {
	if raw, err := base58.Decode(encoded); err == nil {
		if tx, err := solana.TransactionFromBytes(raw); err == nil {
			return tx, EncodingBase58, nil
		}
	}
	tx, err := solana.TransactionFromBase64(encoded)
	if err != nil {
		return nil, EncodingBase58, fmt.Errorf("transaction is neither valid base58 nor base64: %w", err)
	}
	return tx, EncodingBase64, nil
}

// Encode serializes a transaction back to its wire form.
func Encode(tx *solana.Transaction, enc Encoding) (string, error) {
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("failed to serialize transaction: %w", err)
	}
	if enc == EncodingBase64 {
		return base64.StdEncoding.EncodeToString(raw), nil
	}
	return base58.Encode(raw), nil
}

// RequiredSigners returns the static account keys that must sign this
// transaction, in declaration order.
func RequiredSigners(tx *solana.Transaction) []solana.PublicKey {
	n := int(tx.Message.Header.NumRequiredSignatures)
	if n > len(tx.Message.AccountKeys) {
		n = len(tx.Message.AccountKeys)
	}
	return tx.Message.AccountKeys[:n]
}

// FullySigned reports whether every signature slot is populated.
func FullySigned(tx *solana.Transaction) bool {
	n := int(tx.Message.Header.NumRequiredSignatures)
	if len(tx.Signatures) < n {
		return false
	}
	var zero solana.Signature
	for _, sig := range tx.Signatures[:n] {
		if sig == zero {
			return false
		}
	}
	return true
}
