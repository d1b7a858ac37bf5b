package chain

import (
	"context"
	"strings"

	"boostiq/config"
	"boostiq/pkg/consts"
	"boostiq/pkg/entities"
	"boostiq/pkg/repo/driver/chain/bsc"
)

var chainStore *Store

type Store struct {
	store           map[string]Chain
	supportedChains map[string]struct{}
}

// Chain verifies one candidate payment transaction against already-published
// chain data. Implementations answer with a verdict value; an error means the
// provider could not be consulted, not that the payment is bad.
type Chain interface {
	VerifyPayment(ctx context.Context, txHash string) (*entities.VerificationResult, error)
}

// LoadChains initialises clients of blockchain networks
func LoadChains(_ context.Context) {
	chainStore = new(Store)

	chainStore.store = make(map[string]Chain)

	chainStore.supportedChains = make(map[string]struct{})
	for _, chain := range config.GetConfig().Chain.Supported {
		chain = strings.ToLower(chain)
		chainStore.supportedChains[chain] = struct{}{}

		switch chain {
		case consts.Bsc:
			chainStore.store[consts.Bsc] = bsc.New()
		}
	}
}

// GetBlockchainClient returns client of specified blockchain network
func GetBlockchainClient(network string) Chain {
	return chainStore.store[network]
}

// IsChainSupported checks if the given chain is supported by BoostIQ
func IsChainSupported(chain string) bool {
	_, present := chainStore.supportedChains[strings.ToLower(chain)]
	return present
}
