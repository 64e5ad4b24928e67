// =============================================
// File: internal/backend/api.go
// =============================================
package backend

import (
	"context"
	"net/url"
)

// BuyerEntry names one buyer wallet and its buy-in for a token launch.
type BuyerEntry struct {
	Address   string  `json:"address"`
	AmountSol float64 `json:"amountSol"`
}

// CreateTokenRequest asks the backend to construct a launch bundle for a
// launchpad (bags or letsbonk).
type CreateTokenRequest struct {
	Creator         string       `json:"creator"`
	Name            string       `json:"name"`
	Symbol          string       `json:"symbol"`
	MetadataURI     string       `json:"metadataUri"`
	DevBuySol       float64      `json:"devBuySol"`
	Buyers          []BuyerEntry `json:"buyers,omitempty"`
	SlippagePercent float64      `json:"slippagePercent"`
	PriorityFeeSol  string       `json:"priorityFeeSol,omitempty"`
}

// CreateTokenResponse carries the unsigned (or backend-presigned) launch
// transactions. The mint-creation transaction is always first. Some
// backends pre-group into bundles; otherwise Transactions is flat.
type CreateTokenResponse struct {
	Mint         string     `json:"mint"`
	PoolID       string     `json:"poolId,omitempty"`
	Transactions []string   `json:"transactions,omitempty"`
	Bundles      [][]string `json:"bundles,omitempty"`
}

// CreateBagsToken fetches launch transactions from the bags launchpad.
func (c *Client) CreateBagsToken(ctx context.Context, req CreateTokenRequest) (*CreateTokenResponse, error) {
	var resp CreateTokenResponse
	if err := c.postJSON(ctx, "/api/bags/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateBonkToken fetches launch transactions from the letsbonk launchpad.
func (c *Client) CreateBonkToken(ctx context.Context, req CreateTokenRequest) (*CreateTokenResponse, error) {
	var resp CreateTokenResponse
	if err := c.postJSON(ctx, "/api/letsbonk/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TransferRequest asks for mixer or distribution transactions moving SOL
// from one wallet to another through backend-allocated helper wallets.
type TransferRequest struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	AmountSol      float64 `json:"amountSol"`
	PriorityFeeSol string  `json:"priorityFeeSol,omitempty"`
}

// TransferResponse carries the transfer leg transactions. Both the
// depositor and, where a temporary account must be unwrapped, the
// recipient appear as required signers.
type TransferResponse struct {
	Transactions []string `json:"transactions"`
	HelperWallet string   `json:"helperWallet,omitempty"`
}

// MixTransfer fetches one mixer leg.
func (c *Client) MixTransfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	var resp TransferResponse
	if err := c.postJSON(ctx, "/api/wallets/mixer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DistributeTransfer fetches one distribution leg.
func (c *Client) DistributeTransfer(ctx context.Context, req TransferRequest) (*TransferResponse, error) {
	var resp TransferResponse
	if err := c.postJSON(ctx, "/api/wallets/distribute", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SellRequest asks for sell transactions across one or more wallets.
type SellRequest struct {
	Wallets         []string `json:"wallets"`
	Mint            string   `json:"mint"`
	Percent         float64  `json:"percent"`
	Dex             string   `json:"dex,omitempty"`
	SlippagePercent float64  `json:"slippagePercent"`
	PriorityFeeSol  string   `json:"priorityFeeSol,omitempty"`
}

// SellResponse carries one sell transaction per selling wallet, in the
// request's wallet order.
type SellResponse struct {
	Transactions []string `json:"transactions"`
}

// SellTokens fetches sell transactions for the given wallets.
func (c *Client) SellTokens(ctx context.Context, req SellRequest) (*SellResponse, error) {
	var resp SellResponse
	if err := c.postJSON(ctx, "/api/tokens/sell", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LimitOrderSpec describes one limit order to create. The maker is the
// only required signer.
type LimitOrderSpec struct {
	Maker        string  `json:"maker"`
	Mint         string  `json:"mint"`
	Side         string  `json:"side"` // "buy" or "sell"
	AmountSol    float64 `json:"amountSol"`
	TriggerPrice float64 `json:"triggerPrice"`
	SlippagePct  float64 `json:"slippagePercent"`
}

// LimitOrderCreated pairs a backend-assigned order id with its unsigned
// placement transaction.
type LimitOrderCreated struct {
	OrderID     string `json:"orderId"`
	Transaction string `json:"transaction"`
}

// CreateLimitResponse is the batch creation response.
type CreateLimitResponse struct {
	Orders []LimitOrderCreated `json:"orders"`
}

// CreateLimitOrders fetches placement transactions for a batch of orders.
func (c *Client) CreateLimitOrders(ctx context.Context, orders []LimitOrderSpec) (*CreateLimitResponse, error) {
	body := struct {
		Orders []LimitOrderSpec `json:"orders"`
	}{Orders: orders}
	var resp CreateLimitResponse
	if err := c.postJSON(ctx, "/limit/create", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CreateLimitOrder fetches the placement transaction for a single order.
func (c *Client) CreateLimitOrder(ctx context.Context, order LimitOrderSpec) (*LimitOrderCreated, error) {
	var resp LimitOrderCreated
	if err := c.postJSON(ctx, "/limit/create-single", order, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// CancelLimitResponse carries the cancellation transaction.
type CancelLimitResponse struct {
	Transaction string `json:"transaction"`
}

// CancelLimitOrder fetches the cancellation transaction for an order.
func (c *Client) CancelLimitOrder(ctx context.Context, maker, orderID string) (*CancelLimitResponse, error) {
	body := struct {
		Maker   string `json:"maker"`
		OrderID string `json:"orderId"`
	}{Maker: maker, OrderID: orderID}
	var resp CancelLimitResponse
	if err := c.postJSON(ctx, "/limit/cancel", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ActiveOrder describes one open limit order.
type ActiveOrder struct {
	OrderID      string  `json:"orderId"`
	Maker        string  `json:"maker"`
	Mint         string  `json:"mint"`
	Side         string  `json:"side"`
	AmountSol    float64 `json:"amountSol"`
	TriggerPrice float64 `json:"triggerPrice"`
	CreatedAt    string  `json:"createdAt"`
}

// ActiveLimitOrders lists the maker's open orders.
func (c *Client) ActiveLimitOrders(ctx context.Context, maker string) ([]ActiveOrder, error) {
	var resp struct {
		Orders []ActiveOrder `json:"orders"`
	}
	path := "/limit/active?maker=" + url.QueryEscape(maker)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}
