// ==================================
// File: internal/wallet/wallet.go
// ==================================
package wallet

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"gopkg.in/yaml.v3"
)

// Wallet is a locally held Solana signing identity. Private keys never
// leave the process; only signatures do.
type Wallet struct {
	Name       string
	PrivateKey solana.PrivateKey
	PublicKey  solana.PublicKey
}

// NewWallet creates a wallet from a base58-encoded private key.
func NewWallet(name, privateKeyBase58 string) (*Wallet, error) {
	privateKeyBytes, err := base58.Decode(privateKeyBase58)
	if err != nil {
		return nil, fmt.Errorf("failed to decode private key: %w", err)
	}
	if len(privateKeyBytes) != 64 {
		return nil, fmt.Errorf("invalid private key length: expected 64 bytes, got %d", len(privateKeyBytes))
	}
	privateKey := solana.PrivateKey(privateKeyBytes)
	return &Wallet{
		Name:       name,
		PrivateKey: privateKey,
		PublicKey:  privateKey.PublicKey(),
	}, nil
}

// WalletConfig represents the structure of the wallets YAML file.
type WalletConfig struct {
	Wallets []struct {
		Name       string `yaml:"name"`
		PrivateKey string `yaml:"private_key"`
	} `yaml:"wallets"`
}

// LoadWallets loads named wallets from a YAML file.
func LoadWallets(path string) (map[string]*Wallet, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config WalletConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(config.Wallets) == 0 {
		return nil, fmt.Errorf("no wallets found in configuration")
	}

	wallets := make(map[string]*Wallet)
	for _, walletData := range config.Wallets {
		if walletData.Name == "" || walletData.PrivateKey == "" {
			continue
		}
		w, err := NewWallet(walletData.Name, walletData.PrivateKey)
		if err != nil {
			continue
		}
		wallets[walletData.Name] = w
	}

	if len(wallets) == 0 {
		return nil, fmt.Errorf("no valid wallets loaded")
	}

	return wallets, nil
}

// SignTransaction signs a transaction with this wallet's private key only.
func (w *Wallet) SignTransaction(tx *solana.Transaction) error {
	_, err := tx.PartialSign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(w.PublicKey) {
			return &w.PrivateKey
		}
		return nil
	})
	return err
}

// Keyring is a set of wallets addressable by public key, the shape the
// signer's required-signer scan expects.
type Keyring map[solana.PublicKey]solana.PrivateKey

// NewKeyring builds a keyring from wallets, deduplicating by public key.
func NewKeyring(wallets ...*Wallet) Keyring {
	ring := make(Keyring, len(wallets))
	for _, w := range wallets {
		if w == nil {
			continue
		}
		ring[w.PublicKey] = w.PrivateKey
	}
	return ring
}

// Get returns the private key for a public key, or nil when absent.
func (r Keyring) Get(key solana.PublicKey) *solana.PrivateKey {
	if pk, ok := r[key]; ok {
		return &pk
	}
	return nil
}

// String returns the wallet's public key.
func (w *Wallet) String() string {
	return w.PublicKey.String()
}
