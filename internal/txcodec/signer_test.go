package txcodec

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/timurkhasanov/solana-bundler/internal/wallet"
)

func ringOf(wallets ...*solana.Wallet) wallet.Keyring {
	ring := make(wallet.Keyring, len(wallets))
	for _, w := range wallets {
		ring[w.PublicKey()] = w.PrivateKey
	}
	return ring
}

func TestSignSingleSigner(t *testing.T) {
	payer := solana.NewWallet()
	tx := buildTransfer(t, payer)
	encoded, err := Encode(tx, EncodingBase58)
	require.NoError(t, err)

	signer := NewSigner(zap.NewNop())
	signed, err := signer.Sign(encoded, ringOf(payer))
	require.NoError(t, err)
	assert.NotEqual(t, encoded, signed)

	decoded, enc, err := Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, EncodingBase58, enc, "output keeps the input encoding")
	assert.True(t, FullySigned(decoded))
}

func TestSignPreservesBase64(t *testing.T) {
	payer := solana.NewWallet()
	tx := buildTransfer(t, payer)
	encoded, err := Encode(tx, EncodingBase64)
	require.NoError(t, err)

	signer := NewSigner(zap.NewNop())
	signed, err := signer.Sign(encoded, ringOf(payer))
	require.NoError(t, err)

	_, enc, err := Decode(signed)
	require.NoError(t, err)
	assert.Equal(t, EncodingBase64, enc)
}

func TestSignPartialLeavesMissingSlotEmpty(t *testing.T) {
	payer := solana.NewWallet()
	sender := solana.NewWallet()
	tx := buildTransfer(t, payer, sender)
	encoded, err := Encode(tx, EncodingBase58)
	require.NoError(t, err)

	// Only the payer key is held; the sender slot must stay empty and
	// that must not be treated as a failure.
	signer := NewSigner(zap.NewNop())
	signed, err := signer.Sign(encoded, ringOf(payer))
	require.NoError(t, err)
	assert.NotEqual(t, encoded, signed)

	decoded, _, err := Decode(signed)
	require.NoError(t, err)
	assert.False(t, FullySigned(decoded))

	var zero solana.Signature
	signers := RequiredSigners(decoded)
	for i, key := range signers {
		if key.Equals(payer.PublicKey()) {
			assert.NotEqual(t, zero, decoded.Signatures[i])
		} else {
			assert.Equal(t, zero, decoded.Signatures[i])
		}
	}
}

func TestSignNoMatchReturnsInputUnchanged(t *testing.T) {
	payer := solana.NewWallet()
	tx := buildTransfer(t, payer)
	encoded, err := Encode(tx, EncodingBase58)
	require.NoError(t, err)

	signer := NewSigner(zap.NewNop())
	signed, err := signer.Sign(encoded, ringOf(solana.NewWallet()))
	require.NoError(t, err)
	assert.Equal(t, encoded, signed)
}

func TestSignIdempotent(t *testing.T) {
	payer := solana.NewWallet()
	tx := buildTransfer(t, payer)
	encoded, err := Encode(tx, EncodingBase58)
	require.NoError(t, err)

	signer := NewSigner(zap.NewNop())
	once, err := signer.Sign(encoded, ringOf(payer))
	require.NoError(t, err)
	twice, err := signer.Sign(once, ringOf(payer))
	require.NoError(t, err)
	assert.Equal(t, once, twice, "signing a fully signed transaction is a no-op")
}

func TestSignRejectsGarbage(t *testing.T) {
	signer := NewSigner(zap.NewNop())
	_, err := signer.Sign("not a transaction", ringOf(solana.NewWallet()))
	require.Error(t, err)
}

func TestSignAllCollectsFailures(t *testing.T) {
	payer := solana.NewWallet()
	good1, err := Encode(buildTransfer(t, payer), EncodingBase58)
	require.NoError(t, err)
	good2, err := Encode(buildTransfer(t, payer), EncodingBase64)
	require.NoError(t, err)

	signer := NewSigner(zap.NewNop())
	batch := []string{good1, "garbage!", good2}
	out, errs := signer.SignAll(batch, ringOf(payer))

	require.Len(t, out, 3)
	require.Len(t, errs, 1)
	assert.Equal(t, 1, errs[0].Index)
	assert.Equal(t, "garbage!", out[1], "failed entries keep their original form")
	assert.NotEqual(t, good1, out[0])
	assert.NotEqual(t, good2, out[2])
}
