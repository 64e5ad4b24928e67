// =============================================
// File: internal/task/manager.go
// =============================================
package task

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Manager loads and parses Task definitions.
type Manager struct {
	logger *zap.Logger
}

// TaskConfig represents the structure of the tasks YAML file.
type TaskConfig struct {
	Tasks []struct {
		TaskName        string           `yaml:"task_name"`
		Operation       string           `yaml:"operation"`
		Wallet          string           `yaml:"wallet"`
		Launchpad       string           `yaml:"launchpad"`
		TokenName       string           `yaml:"token_name"`
		TokenSymbol     string           `yaml:"token_symbol"`
		MetadataURI     string           `yaml:"metadata_uri"`
		DevBuySol       float64          `yaml:"dev_buy_sol"`
		Buyers          []BuyerEntry     `yaml:"buyers"`
		Recipients      []RecipientEntry `yaml:"recipients"`
		Wallets         []string         `yaml:"wallets"`
		TokenMint       string           `yaml:"token_mint"`
		Percent         float64          `yaml:"percent"`
		Side            string           `yaml:"side"`
		AmountSol       float64          `yaml:"amount_sol"`
		TriggerPrice    float64          `yaml:"trigger_price"`
		SlippagePercent float64          `yaml:"slippage_percent"`
		PriorityFeeSol  string           `yaml:"priority_fee_sol"`
		OrderID         string           `yaml:"order_id"`
		AllInOne        bool             `yaml:"all_in_one"`
	} `yaml:"tasks"`
}

// NewManager constructs a Manager with the given logger.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger.Named("tasks")}
}

// LoadTasks reads tasks from a YAML file, skipping invalid entries with a
// warning rather than failing the whole run.
func (m *Manager) LoadTasks(path string) ([]*Task, error) {
	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var config TaskConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(config.Tasks) == 0 {
		return nil, fmt.Errorf("no tasks found in configuration")
	}

	tasks := make([]*Task, 0, len(config.Tasks))
	for i, td := range config.Tasks {
		t := &Task{
			TaskName:        td.TaskName,
			Operation:       OperationType(td.Operation),
			Wallet:          td.Wallet,
			Launchpad:       td.Launchpad,
			TokenName:       td.TokenName,
			TokenSymbol:     td.TokenSymbol,
			MetadataURI:     td.MetadataURI,
			DevBuySol:       td.DevBuySol,
			Buyers:          td.Buyers,
			Recipients:      td.Recipients,
			Wallets:         td.Wallets,
			TokenMint:       td.TokenMint,
			Percent:         td.Percent,
			Side:            td.Side,
			AmountSol:       td.AmountSol,
			TriggerPrice:    td.TriggerPrice,
			SlippagePercent: td.SlippagePercent,
			PriorityFeeSol:  td.PriorityFeeSol,
			OrderID:         td.OrderID,
			AllInOne:        td.AllInOne,
			CreatedAt:       time.Now(),
		}
		if err := t.Validate(); err != nil {
			m.logger.Warn("skipping invalid task",
				zap.Int("index", i),
				zap.String("task", td.TaskName),
				zap.Error(err))
			continue
		}
		tasks = append(tasks, t)
	}

	if len(tasks) == 0 {
		return nil, fmt.Errorf("no valid tasks loaded")
	}
	return tasks, nil
}
