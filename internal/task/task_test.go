package task

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name: "valid create",
			task: Task{TaskName: "launch", Operation: OperationCreate,
				Wallet: "dev", TokenName: "Token", TokenSymbol: "TKN"},
		},
		{
			name:    "create without symbol",
			task:    Task{TaskName: "launch", Operation: OperationCreate, Wallet: "dev", TokenName: "Token"},
			wantErr: true,
		},
		{
			name: "valid distribute",
			task: Task{TaskName: "spread", Operation: OperationDistribute, Wallet: "main",
				Recipients: []RecipientEntry{{Wallet: "w1", AmountSol: 0.1}}},
		},
		{
			name:    "mix without recipients",
			task:    Task{TaskName: "m", Operation: OperationMix, Wallet: "main"},
			wantErr: true,
		},
		{
			name: "sell with single wallet",
			task: Task{TaskName: "dump", Operation: OperationSell, Wallet: "w1", TokenMint: "Mint", Percent: 50},
		},
		{
			name:    "sell without mint",
			task:    Task{TaskName: "dump", Operation: OperationSell, Wallets: []string{"w1"}},
			wantErr: true,
		},
		{
			name: "valid limit create",
			task: Task{TaskName: "lo", Operation: OperationLimitCreate, Wallet: "maker", TokenMint: "Mint"},
		},
		{
			name:    "limit cancel without order id",
			task:    Task{TaskName: "lc", Operation: OperationLimitCancel, Wallet: "maker"},
			wantErr: true,
		},
		{
			name:    "unknown operation",
			task:    Task{TaskName: "x", Operation: "stake"},
			wantErr: true,
		},
		{
			name:    "missing name",
			task:    Task{Operation: OperationSell, Wallets: []string{"w1"}, TokenMint: "Mint"},
			wantErr: true,
		},
		{
			name: "slippage out of range",
			task: Task{TaskName: "dump", Operation: OperationSell, Wallet: "w1",
				TokenMint: "Mint", SlippagePercent: 101},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSellWallets(t *testing.T) {
	task := Task{Wallet: "solo"}
	assert.Equal(t, []string{"solo"}, task.SellWallets())

	task.Wallets = []string{"a", "b"}
	assert.Equal(t, []string{"a", "b"}, task.SellWallets())
}

func TestLoadTasks(t *testing.T) {
	content := `tasks:
  - task_name: launch
    operation: create
    wallet: dev
    token_name: Token
    token_symbol: TKN
    dev_buy_sol: 0.5
    buyers:
      - wallet: buyer1
        amount_sol: 0.2
    all_in_one: true
  - task_name: bad
    operation: create
  - task_name: dump
    operation: sell
    wallets: [w1, w2]
    token_mint: MintPubkey
    percent: 100
`
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m := NewManager(zap.NewNop())
	tasks, err := m.LoadTasks(path)
	require.NoError(t, err)
	require.Len(t, tasks, 2, "the invalid task is skipped")

	assert.Equal(t, OperationCreate, tasks[0].Operation)
	assert.True(t, tasks[0].AllInOne)
	require.Len(t, tasks[0].Buyers, 1)
	assert.Equal(t, "buyer1", tasks[0].Buyers[0].Wallet)

	assert.Equal(t, OperationSell, tasks[1].Operation)
	assert.Equal(t, []string{"w1", "w2"}, tasks[1].SellWallets())
}

func TestLoadTasksErrors(t *testing.T) {
	m := NewManager(zap.NewNop())

	_, err := m.LoadTasks(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(empty, []byte("tasks: []\n"), 0o600))
	_, err = m.LoadTasks(empty)
	require.Error(t, err)

	allBad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(allBad, []byte("tasks:\n  - task_name: x\n    operation: warp\n"), 0o600))
	_, err = m.LoadTasks(allBad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid tasks")
}
