package config

import (
	"errors"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	Client ClientConfig
}

type ServerConfig struct {
	Address        string
	AllowedOrigins []string
}

// DBConfig 是場次歷史資料庫的連線設定
// Host 留空時伺服器改用記憶體儲存，歷史在重啟後消失
type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

// ClientConfig 是同步轉接器要連線的伺服器位址
type ClientConfig struct {
	ServerURL string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	// 環境變數可覆寫所有設定，例如 IMPOSTER_SERVER_ADDRESS
	viper.SetEnvPrefix("imposter")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.address", ":3001")
	viper.SetDefault("server.allowedorigins", []string{})
	viper.SetDefault("db.host", "")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("client.serverurl", "ws://localhost:3001/ws")

	// 設定檔可有可無，沒有的話就用預設值加環境變數
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
