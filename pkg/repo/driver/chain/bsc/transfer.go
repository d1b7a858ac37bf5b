package bsc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"

	"boostiq/pkg/entities"
)

// transferEventTopic is keccak256("Transfer(address,address,uint256)"), the
// topic0 of every ERC20/BEP20 Transfer log.
var transferEventTopic = crypto.Keccak256Hash([]byte("Transfer(address,address,uint256)"))

// DecodeTransfers extracts every Transfer event emitted by the given token
// contract. The sender and recipient sit left-padded in topics 1 and 2; the
// amount is the big-endian integer in the data word, rescaled by the token's
// decimals.
func DecodeTransfers(logs []entities.RawLog, token common.Address, decimals int32) []entities.TransferEvent {
	var events []entities.TransferEvent

	for _, l := range logs {
		if l.Address != token {
			continue
		}
		if len(l.Topics) < 3 || l.Topics[0] != transferEventTopic {
			continue
		}

		amount := new(big.Int).SetBytes(l.Data)
		events = append(events, entities.TransferEvent{
			From:   common.BytesToAddress(l.Topics[1].Bytes()),
			To:     common.BytesToAddress(l.Topics[2].Bytes()),
			Amount: decimal.NewFromBigInt(amount, -decimals),
		})
	}

	return events
}

// TransferredAmount returns the amount sent to recipient by the qualifying
// Transfer logs. A receipt normally carries one such log; when several
// qualify the largest wins, since under-counting would wrongly reject a
// valid payment. Zero means no qualifying transfer exists.
func TransferredAmount(logs []entities.RawLog, token, recipient common.Address, decimals int32) decimal.Decimal {
	best := decimal.Zero

	for _, ev := range DecodeTransfers(logs, token, decimals) {
		if ev.To != recipient {
			continue
		}
		if ev.Amount.GreaterThan(best) {
			best = ev.Amount
		}
	}

	return best
}
