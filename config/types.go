package config

type BoostiqConfModel struct {
	Mode          string  `mapstructure:"mode"`
	LogLevel      string  `mapstructure:"log_level"`
	SweepInterval string  `mapstructure:"sweep_interval"`
	AlertSecret   string  `mapstructure:"alert_secret"`
	Server        Server  `mapstructure:"server"`
	Chain         Chain   `mapstructure:"chain"`
	Bsc           Bsc     `mapstructure:"bsc"`
	Token         Token   `mapstructure:"token"`
	Wallet        string  `mapstructure:"wallet"`
	Payment       Payment `mapstructure:"payment"`
	Groups        Groups  `mapstructure:"groups"`
	DB            DB      `mapstructure:"db"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type Chain struct {
	Supported      []string `mapstructure:"supported"`
	RecencyWindow  string   `mapstructure:"recency_window"`
	RequestTimeout string   `mapstructure:"request_timeout"`
}

// Bsc points the chain data client at a BscScan-style provider. The API key
// is the credential sent with every query.
type Bsc struct {
	Provider ChainNet `mapstructure:"provider"`
}

type ChainNet struct {
	Address string `mapstructure:"address"`
	APIKey  string `mapstructure:"api_key"`
}

type Token struct {
	Contract string `mapstructure:"contract"`
	Symbol   string `mapstructure:"symbol"`
	Decimals int32  `mapstructure:"decimals"`
}

type Payment struct {
	Tolerance string `mapstructure:"tolerance"`
	ClaimTTL  string `mapstructure:"claim_ttl"`
}

// Groups maps a plan to the invite link handed out on activation.
type Groups struct {
	Starter  string `mapstructure:"starter"`
	Pro      string `mapstructure:"pro"`
	Ultimate string `mapstructure:"ultimate"`
}

type DB struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}
