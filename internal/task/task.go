// =============================================
// File: internal/task/task.go
// =============================================
package task

import (
	"fmt"
	"time"
)

// OperationType defines the supported operation types.
type OperationType string

const (
	OperationCreate      OperationType = "create"
	OperationMix         OperationType = "mix"
	OperationDistribute  OperationType = "distribute"
	OperationSell        OperationType = "sell"
	OperationLimitCreate OperationType = "limit_create"
	OperationLimitCancel OperationType = "limit_cancel"
)

// BuyerEntry names a buyer wallet and its buy-in for a launch task.
type BuyerEntry struct {
	Wallet    string  `yaml:"wallet"`
	AmountSol float64 `yaml:"amount_sol"`
}

// RecipientEntry names one destination of a mix/distribute task.
type RecipientEntry struct {
	Wallet    string  `yaml:"wallet,omitempty"`
	Address   string  `yaml:"address,omitempty"`
	AmountSol float64 `yaml:"amount_sol"`
}

// Task is one trading operation from the tasks file.
type Task struct {
	TaskName        string
	Operation       OperationType
	Wallet          string
	Launchpad       string
	TokenName       string
	TokenSymbol     string
	MetadataURI     string
	DevBuySol       float64
	Buyers          []BuyerEntry
	Recipients      []RecipientEntry
	Wallets         []string
	TokenMint       string
	Percent         float64
	Side            string
	AmountSol       float64
	TriggerPrice    float64
	SlippagePercent float64
	PriorityFeeSol  string
	OrderID         string
	AllInOne        bool
	CreatedAt       time.Time
}

// Validate checks the operation-independent parts of a task; the engine
// validates operation parameters again before any network call.
func (t *Task) Validate() error {
	if t.TaskName == "" {
		return fmt.Errorf("task name cannot be empty")
	}

	switch t.Operation {
	case OperationCreate:
		if t.TokenName == "" || t.TokenSymbol == "" {
			return fmt.Errorf("create task needs token_name and token_symbol")
		}
		if t.Wallet == "" {
			return fmt.Errorf("create task needs a creator wallet")
		}
	case OperationMix, OperationDistribute:
		if t.Wallet == "" {
			return fmt.Errorf("%s task needs a sender wallet", t.Operation)
		}
		if len(t.Recipients) == 0 {
			return fmt.Errorf("%s task needs recipients", t.Operation)
		}
	case OperationSell:
		if len(t.Wallets) == 0 && t.Wallet == "" {
			return fmt.Errorf("sell task needs wallets")
		}
		if t.TokenMint == "" {
			return fmt.Errorf("sell task needs token_mint")
		}
	case OperationLimitCreate:
		if t.Wallet == "" || t.TokenMint == "" {
			return fmt.Errorf("limit_create task needs wallet and token_mint")
		}
	case OperationLimitCancel:
		if t.Wallet == "" || t.OrderID == "" {
			return fmt.Errorf("limit_cancel task needs wallet and order_id")
		}
	default:
		return fmt.Errorf("invalid operation: %s", t.Operation)
	}

	if t.SlippagePercent < 0 || t.SlippagePercent > 100 {
		return fmt.Errorf("slippage must be between 0 and 100")
	}
	return nil
}

// SellWallets returns the wallet set a sell task applies to.
func (t *Task) SellWallets() []string {
	if len(t.Wallets) > 0 {
		return t.Wallets
	}
	return []string{t.Wallet}
}
