package consts

const (
	AppName = "boostiq"

	Bsc = "bsc"

	// USDT (BEP20) on BSC mainnet
	DefaultTokenContract = "0x55d398326f99059fF775485246999027B3197955"
	DefaultTokenSymbol   = "USDT"
	DefaultTokenDecimals = 18
)
