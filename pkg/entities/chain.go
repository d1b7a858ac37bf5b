package entities

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// RawTx is the normalized transaction record returned by a chain data
// provider. Downstream logic depends on this shape only, never on the
// provider's JSON.
type RawTx struct {
	Hash        common.Hash
	From        common.Address
	To          *common.Address // nil for contract creation
	BlockNumber uint64          // 0 while the transaction is pending
}

// RawLog is a single event-log entry from a transaction receipt.
type RawLog struct {
	Address common.Address
	Topics  []common.Hash
	Data    []byte
}

// ReceiptStatusSuccess is the receipt status of a successfully executed
// transaction.
const ReceiptStatusSuccess uint64 = 1

// RawReceipt is the normalized transaction receipt.
type RawReceipt struct {
	TxHash      common.Hash
	Status      uint64
	BlockNumber uint64
	Logs        []RawLog
}

// RawBlock is the normalized block record.
type RawBlock struct {
	Number    uint64
	Timestamp time.Time
}

// TransferEvent is a decoded ERC20/BEP20 Transfer log. Amount is in token
// units, rescaled from the underlying integer by the token's decimals.
type TransferEvent struct {
	From   common.Address
	To     common.Address
	Amount decimal.Decimal
}

type Verdict string

const (
	VerdictAccepted Verdict = "accepted"
	VerdictRejected Verdict = "rejected"
)

// RejectReason categorises why a payment claim was turned down. Reasons are
// user-attributable and surfaced verbatim to the user-facing layer.
type RejectReason string

const (
	ReasonNotFound           RejectReason = "not_found"
	ReasonWrongContract      RejectReason = "wrong_contract"
	ReasonTxFailed           RejectReason = "tx_failed"
	ReasonTooOld             RejectReason = "too_old"
	ReasonNoMatchingTransfer RejectReason = "no_matching_transfer"
	ReasonInsufficientAmount RejectReason = "insufficient_amount"
	ReasonBadFormat          RejectReason = "bad_format"
)

// VerificationResult is the outcome of one verification attempt. Rejections
// are values, not errors; only infrastructure failures travel as errors.
type VerificationResult struct {
	Verdict Verdict         `json:"verdict"`
	Settled decimal.Decimal `json:"settled_amount"`
	Reason  RejectReason    `json:"reason,omitempty"`
}

func Accepted(settled decimal.Decimal) *VerificationResult {
	return &VerificationResult{Verdict: VerdictAccepted, Settled: settled}
}

func Rejected(reason RejectReason) *VerificationResult {
	return &VerificationResult{Verdict: VerdictRejected, Settled: decimal.Zero, Reason: reason}
}

func (v *VerificationResult) IsAccepted() bool {
	return v != nil && v.Verdict == VerdictAccepted
}
