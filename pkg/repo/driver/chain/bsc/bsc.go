package bsc

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cast"

	"boostiq/config"
	"boostiq/pkg/entities"
	"boostiq/utilities"
	"boostiq/utilities/http_client"
)

// BSC verifies BEP20 token payments from public chain data. It never signs
// or broadcasts anything.
type BSC struct {
	client        *Client
	wallet        common.Address
	token         common.Address
	decimals      int32
	recencyWindow time.Duration
	now           func() time.Time
}

func New() *BSC {
	conf := config.GetConfig()

	client := NewClient(
		conf.Bsc.Provider.Address,
		conf.Bsc.Provider.APIKey,
		cast.ToDuration(conf.Chain.RequestTimeout),
		http_client.GetClient(),
	)

	return &BSC{
		client:        client,
		wallet:        common.HexToAddress(conf.Wallet),
		token:         common.HexToAddress(conf.Token.Contract),
		decimals:      conf.Token.Decimals,
		recencyWindow: cast.ToDuration(conf.Chain.RecencyWindow),
		now:           utilities.TimeNow,
	}
}

// VerifyPayment answers whether txHash is a successful, recent BEP20 transfer
// of the expected token to the expected wallet. Each check is independently
// sufficient to reject. Amount sufficiency against the plan price is judged
// by the caller; that is a business rule, not a chain rule.
func (b *BSC) VerifyPayment(ctx context.Context, txHash string) (*entities.VerificationResult, error) {
	log := utilities.NewLoggerWithFields("bsc.VerifyPayment", map[string]interface{}{
		"tx_hash": txHash,
	})

	hash := common.HexToHash(txHash)

	tx, err := b.client.GetTransaction(ctx, hash)
	if errors.Is(err, ErrNotFound) {
		return entities.Rejected(entities.ReasonNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	if tx.To == nil || *tx.To != b.token {
		// A native-coin transfer straight to the wallet bypasses the token
		// contract and is not a valid payment.
		return entities.Rejected(entities.ReasonWrongContract), nil
	}

	receipt, err := b.client.GetReceipt(ctx, hash)
	if errors.Is(err, ErrNotFound) {
		return entities.Rejected(entities.ReasonNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	if receipt.Status != entities.ReceiptStatusSuccess {
		return entities.Rejected(entities.ReasonTxFailed), nil
	}

	block, err := b.client.GetBlock(ctx, receipt.BlockNumber)
	if errors.Is(err, ErrNotFound) {
		return entities.Rejected(entities.ReasonNotFound), nil
	}
	if err != nil {
		return nil, err
	}

	if age := b.now().Sub(block.Timestamp); age > b.recencyWindow {
		log.Debugf("transaction too old: mined %s ago", age)
		return entities.Rejected(entities.ReasonTooOld), nil
	}

	amount := TransferredAmount(receipt.Logs, b.token, b.wallet, b.decimals)
	if amount.IsZero() {
		return entities.Rejected(entities.ReasonNoMatchingTransfer), nil
	}

	log.Infof("verified transfer of %s to %s", amount, b.wallet.Hex())

	return entities.Accepted(amount), nil
}
