package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"boostiq/pkg/consts"
)

const configFilePath = "/etc/boostiq/config.yaml"

var boostiqConf *BoostiqConfModel

func LoadConfig() (*BoostiqConfModel, error) {
	filePath := configFilePath
	if p := os.Getenv("BOOSTIQ_CONFIG"); p != "" {
		filePath = p
	}

	if err := loadViperConfig(filePath); err != nil {
		return nil, err
	}

	return boostiqConf, nil
}

func GetConfig() *BoostiqConfModel {
	return boostiqConf
}

func loadViperConfig(filePath string) error {
	viper.SetConfigFile(filePath)
	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("error reading viper config: %w", err)
	}

	setEnvConf()
	setDefault()

	err = viper.Unmarshal(&boostiqConf)
	if err != nil {
		return fmt.Errorf("error loading viper config to struct: %w", err)
	}

	if boostiqConf.Wallet == "" {
		return fmt.Errorf("wallet address is not configured")
	}
	if boostiqConf.Bsc.Provider.APIKey == "" {
		return fmt.Errorf("chain provider api key is not configured")
	}

	return nil
}

func setEnvConf() {
	viper.BindEnv("bsc.provider.api_key", "BOOSTIQ_PROVIDER_API_KEY")
	viper.BindEnv("alert_secret", "BOOSTIQ_ALERT_SECRET")
	viper.BindEnv("db.dsn", "BOOSTIQ_DB_DSN")
}

func setDefault() {
	viper.SetDefault("mode", "stage")
	viper.SetDefault("log_level", "info")
	viper.SetDefault("sweep_interval", "1h")
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("chain.supported", []string{consts.Bsc})
	viper.SetDefault("chain.recency_window", "24h")
	viper.SetDefault("chain.request_timeout", "10s")
	viper.SetDefault("bsc.provider.address", "https://api.bscscan.com/api")
	viper.SetDefault("token.contract", consts.DefaultTokenContract)
	viper.SetDefault("token.symbol", consts.DefaultTokenSymbol)
	viper.SetDefault("token.decimals", consts.DefaultTokenDecimals)
	viper.SetDefault("payment.tolerance", "0.05")
	viper.SetDefault("payment.claim_ttl", "30m")
	viper.SetDefault("db.driver", "file")
	viper.SetDefault("db.path", "/var/lib/boostiq/subscriptions.json")
}
