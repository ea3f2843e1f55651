package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// 储存后端
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
)

// Config 应用配置
type Config struct {
	Port    int    `env:"PORT" envDefault:"8080"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"memory"`

	MongoURI string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDB  string `env:"MONGO_DB" envDefault:"course_funnel"`

	PostgresDSN string `env:"POSTGRES_DSN"`

	SheetsSpreadsheetID   string `env:"SHEETS_SPREADSHEET_ID"`
	GoogleCredentialsJSON string `env:"GOOGLE_CREDENTIALS_JSON"`
	GoogleCredentialsFile string `env:"GOOGLE_CREDENTIALS_FILE"`

	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	LogFile        string `env:"LOG_FILE"`
	FunnelSyncCron string `env:"FUNNEL_SYNC_CRON" envDefault:"0 3 * * *"`
}

// Debug 是否为调试模式
func (c *Config) Debug() bool {
	return c.GinMode == "debug"
}

// LoadConfig 从 .env 与环境变量加载配置
func LoadConfig() (*Config, error) {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("解析环境变量失败: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.StoreBackend = strings.ToLower(strings.TrimSpace(c.StoreBackend))
	if c.StoreBackend == "" {
		c.StoreBackend = BackendMemory
	}
	switch c.StoreBackend {
	case BackendMemory, BackendMongo:
	case BackendSheets:
		if c.SheetsSpreadsheetID == "" {
			return fmt.Errorf("STORE_BACKEND=sheets 需要设置 SHEETS_SPREADSHEET_ID")
		}
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return fmt.Errorf("STORE_BACKEND=postgres 需要设置 POSTGRES_DSN")
		}
	default:
		return fmt.Errorf("未知的 STORE_BACKEND: %q", c.StoreBackend)
	}
	return nil
}
