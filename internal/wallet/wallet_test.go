package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallet(t *testing.T) {
	key := solana.NewWallet().PrivateKey

	w, err := NewWallet("trader", key.String())
	require.NoError(t, err)
	assert.Equal(t, "trader", w.Name)
	assert.Equal(t, key.PublicKey(), w.PublicKey)
	assert.Equal(t, w.PublicKey.String(), w.String())
}

func TestNewWalletInvalidKey(t *testing.T) {
	_, err := NewWallet("bad", "not-base58-!!!")
	require.Error(t, err)

	// Valid base58 but wrong length.
	_, err = NewWallet("short", "3yZe7d")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "64 bytes")
}

func TestLoadWallets(t *testing.T) {
	k1 := solana.NewWallet().PrivateKey
	k2 := solana.NewWallet().PrivateKey

	content := "wallets:\n" +
		"  - name: dev\n    private_key: " + k1.String() + "\n" +
		"  - name: buyer1\n    private_key: " + k2.String() + "\n" +
		"  - name: broken\n    private_key: zzz\n" +
		"  - name: \"\"\n    private_key: " + k1.String() + "\n"

	path := filepath.Join(t.TempDir(), "wallets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	wallets, err := LoadWallets(path)
	require.NoError(t, err)
	assert.Len(t, wallets, 2, "invalid and unnamed entries are skipped")
	assert.Equal(t, k1.PublicKey(), wallets["dev"].PublicKey)
	assert.Equal(t, k2.PublicKey(), wallets["buyer1"].PublicKey)
}

func TestLoadWalletsErrors(t *testing.T) {
	_, err := LoadWallets(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("wallets: []\n"), 0o600))
	_, err = LoadWallets(empty)
	require.Error(t, err)

	allBad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(allBad, []byte("wallets:\n  - name: x\n    private_key: zzz\n"), 0o600))
	_, err = LoadWallets(allBad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid wallets")
}

func TestKeyring(t *testing.T) {
	a := solana.NewWallet()
	b := solana.NewWallet()
	wa := &Wallet{Name: "a", PrivateKey: a.PrivateKey, PublicKey: a.PublicKey()}
	wb := &Wallet{Name: "b", PrivateKey: b.PrivateKey, PublicKey: b.PublicKey()}

	ring := NewKeyring(wa, wb, wa, nil)
	assert.Len(t, ring, 2, "duplicates and nils are dropped")

	got := ring.Get(a.PublicKey())
	require.NotNil(t, got)
	assert.Equal(t, a.PrivateKey, *got)

	assert.Nil(t, ring.Get(solana.NewWallet().PublicKey()))
}
