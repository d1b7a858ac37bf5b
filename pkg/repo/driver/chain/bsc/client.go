package bsc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"boostiq/pkg/entities"
)

// ErrNotFound means the provider reports no such record. It is a legitimate
// outcome for unconfirmed or fabricated hashes, not a provider fault.
var ErrNotFound = errors.New("record not found on chain")

// ProviderError signals a malformed or error response body from the chain
// data provider. Transport failures are wrapped plain errors instead.
type ProviderError struct {
	Status int
	Detail string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("chain provider error (status %d): %s", e.Status, e.Detail)
}

// Client issues read-only proxy queries against a BscScan-style provider and
// normalizes the responses. It performs no retries; retry policy belongs to
// the caller.
type Client struct {
	baseURL    string
	apiKey     string
	timeout    time.Duration
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		httpClient: httpClient,
	}
}

type proxyEnvelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type rawTxJSON struct {
	Hash        common.Hash     `json:"hash"`
	From        common.Address  `json:"from"`
	To          *common.Address `json:"to"`
	BlockNumber *hexutil.Uint64 `json:"blockNumber"`
}

type rawLogJSON struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    hexutil.Bytes  `json:"data"`
}

type rawReceiptJSON struct {
	TransactionHash common.Hash    `json:"transactionHash"`
	Status          hexutil.Uint64 `json:"status"`
	BlockNumber     hexutil.Uint64 `json:"blockNumber"`
	Logs            []rawLogJSON   `json:"logs"`
}

type rawBlockJSON struct {
	Number    hexutil.Uint64 `json:"number"`
	Timestamp hexutil.Uint64 `json:"timestamp"`
}

func (c *Client) GetTransaction(ctx context.Context, hash common.Hash) (*entities.RawTx, error) {
	params := url.Values{"txhash": {hash.Hex()}}

	var raw rawTxJSON
	if err := c.proxyCall(ctx, "eth_getTransactionByHash", params, &raw); err != nil {
		return nil, err
	}

	tx := &entities.RawTx{
		Hash: raw.Hash,
		From: raw.From,
		To:   raw.To,
	}
	if raw.BlockNumber != nil {
		tx.BlockNumber = uint64(*raw.BlockNumber)
	}

	return tx, nil
}

func (c *Client) GetReceipt(ctx context.Context, hash common.Hash) (*entities.RawReceipt, error) {
	params := url.Values{"txhash": {hash.Hex()}}

	var raw rawReceiptJSON
	if err := c.proxyCall(ctx, "eth_getTransactionReceipt", params, &raw); err != nil {
		return nil, err
	}

	receipt := &entities.RawReceipt{
		TxHash:      raw.TransactionHash,
		Status:      uint64(raw.Status),
		BlockNumber: uint64(raw.BlockNumber),
		Logs:        make([]entities.RawLog, 0, len(raw.Logs)),
	}
	for _, l := range raw.Logs {
		receipt.Logs = append(receipt.Logs, entities.RawLog{
			Address: l.Address,
			Topics:  l.Topics,
			Data:    l.Data,
		})
	}

	return receipt, nil
}

func (c *Client) GetBlock(ctx context.Context, number uint64) (*entities.RawBlock, error) {
	params := url.Values{
		"tag":     {hexutil.EncodeUint64(number)},
		"boolean": {"false"},
	}

	var raw rawBlockJSON
	if err := c.proxyCall(ctx, "eth_getBlockByNumber", params, &raw); err != nil {
		return nil, err
	}

	return &entities.RawBlock{
		Number:    uint64(raw.Number),
		Timestamp: time.Unix(int64(raw.Timestamp), 0).UTC(),
	}, nil
}

func (c *Client) proxyCall(ctx context.Context, action string, params url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params.Set("module", "proxy")
	params.Set("action", action)
	params.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build provider request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("provider request %s failed: %w", action, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &ProviderError{Status: resp.StatusCode, Detail: string(body)}
	}

	var envelope proxyEnvelope
	if err = json.Unmarshal(body, &envelope); err != nil {
		return &ProviderError{Status: resp.StatusCode, Detail: fmt.Sprintf("malformed body: %v", err)}
	}

	if envelope.Error != nil {
		return &ProviderError{Status: resp.StatusCode, Detail: envelope.Error.Message}
	}

	result := bytes.TrimSpace(envelope.Result)
	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return ErrNotFound
	}

	if err = json.Unmarshal(result, out); err != nil {
		return &ProviderError{Status: resp.StatusCode, Detail: fmt.Sprintf("malformed result for %s: %v", action, err)}
	}

	return nil
}
