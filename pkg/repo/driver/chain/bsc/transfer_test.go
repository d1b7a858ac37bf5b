package bsc

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boostiq/pkg/entities"
)

var (
	testToken  = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	testWallet = common.HexToAddress("0x6212905759a270a5860fc09f3f7c84c54470a89b")
	testSender = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func transferLog(token, from, to common.Address, amount *big.Int) entities.RawLog {
	return entities.RawLog{
		Address: token,
		Topics: []common.Hash{
			transferEventTopic,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: common.LeftPadBytes(amount.Bytes(), 32),
	}
}

func TestTransferEventTopic(t *testing.T) {
	// keccak256("Transfer(address,address,uint256)")
	assert.Equal(t,
		"0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef",
		transferEventTopic.Hex(),
	)
}

func TestDecodeTransfers(t *testing.T) {
	oneToken := new(big.Int)
	oneToken.SetString("1000000000000000000", 10)

	t.Run("exact unit rescaling", func(t *testing.T) {
		events := DecodeTransfers(
			[]entities.RawLog{transferLog(testToken, testSender, testWallet, oneToken)},
			testToken, 18,
		)
		require.Len(t, events, 1)
		assert.True(t, events[0].Amount.Equal(decimal.RequireFromString("1")))
		assert.Equal(t, testSender, events[0].From)
		assert.Equal(t, testWallet, events[0].To)
	})

	t.Run("ignores other contracts", func(t *testing.T) {
		other := common.HexToAddress("0x2222222222222222222222222222222222222222")
		events := DecodeTransfers(
			[]entities.RawLog{transferLog(other, testSender, testWallet, oneToken)},
			testToken, 18,
		)
		assert.Empty(t, events)
	})

	t.Run("ignores non transfer topics", func(t *testing.T) {
		l := transferLog(testToken, testSender, testWallet, oneToken)
		l.Topics[0] = common.HexToHash("0xdeadbeef")
		assert.Empty(t, DecodeTransfers([]entities.RawLog{l}, testToken, 18))
	})

	t.Run("ignores short topic list", func(t *testing.T) {
		l := transferLog(testToken, testSender, testWallet, oneToken)
		l.Topics = l.Topics[:2]
		assert.Empty(t, DecodeTransfers([]entities.RawLog{l}, testToken, 18))
	})
}

func TestTransferredAmount(t *testing.T) {
	wei := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		require.True(t, ok)
		return v
	}

	t.Run("no logs yields zero", func(t *testing.T) {
		amount := TransferredAmount(nil, testToken, testWallet, 18)
		assert.True(t, amount.IsZero())
	})

	t.Run("transfer to someone else yields zero", func(t *testing.T) {
		other := common.HexToAddress("0x3333333333333333333333333333333333333333")
		logs := []entities.RawLog{transferLog(testToken, testSender, other, wei("9990000000000000000"))}
		assert.True(t, TransferredAmount(logs, testToken, testWallet, 18).IsZero())
	})

	t.Run("picks the largest qualifying transfer", func(t *testing.T) {
		logs := []entities.RawLog{
			transferLog(testToken, testSender, testWallet, wei("1000000000000000000")),
			transferLog(testToken, testSender, testWallet, wei("9990000000000000000")),
			transferLog(testToken, testSender, testWallet, wei("500000000000000000")),
		}
		amount := TransferredAmount(logs, testToken, testWallet, 18)
		assert.True(t, amount.Equal(decimal.RequireFromString("9.99")), "got %s", amount)
	})

	t.Run("recipient match is case insensitive", func(t *testing.T) {
		// mixed-case and lower-case spellings resolve to the same 20 bytes
		upper := common.HexToAddress("0x6212905759A270A5860FC09F3F7C84C54470A89B")
		logs := []entities.RawLog{transferLog(testToken, testSender, upper, wei("9990000000000000000"))}
		amount := TransferredAmount(logs, testToken, testWallet, 18)
		assert.True(t, amount.Equal(decimal.RequireFromString("9.99")))
	})
}
