package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/solana"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
)

// Config contains all configuration parameters for the application.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	PublicURL string `envconfig:"PUBLIC_URL" default:"http://localhost:8080"`
	AppRef    string `envconfig:"APP_REF" default:""`

	SolanaCluster string `envconfig:"SOLANA_CLUSTER" default:"mainnet-beta"`
	SolanaRPCURL  string `envconfig:"SOLANA_RPC_URL" default:"https://api.mainnet-beta.solana.com"`
	MinSOLBalance string `envconfig:"MIN_SOL_BALANCE" default:""` // empty disables the balance rule

	StoreDriver     string `envconfig:"STORE_DRIVER" default:"memory"`
	DatabaseDSN     string `envconfig:"DATABASE_DSN" default:"waitlist.db"`
	MongoURI        string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDatabase   string `envconfig:"MONGO_DATABASE" default:"waitlist"`
	MongoCollection string `envconfig:"MONGO_COLLECTION" default:"whitelist_users"`

	FlowTTLMinutes    int  `envconfig:"FLOW_TTL_MINUTES" default:"15"`
	SessionTTLMinutes int  `envconfig:"SESSION_TTL_MINUTES" default:"60"`
	CookieSecure      bool `envconfig:"COOKIE_SECURE" default:"false"`

	RequireDisplayName   bool `envconfig:"REQUIRE_DISPLAY_NAME" default:"true"`
	EnforceHandlePattern bool `envconfig:"ENFORCE_HANDLE_PATTERN" default:"true"`
	CheckHandleTaken     bool `envconfig:"CHECK_HANDLE_TAKEN" default:"true"`

	AMQPURL        string `envconfig:"AMQP_URL" default:""`
	AMQPExchange   string `envconfig:"AMQP_EXCHANGE" default:"waitlist"`
	AMQPRoutingKey string `envconfig:"AMQP_ROUTING_KEY" default:"whitelist.joined"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads .env (when present) and then configuration from environment variables.
func Init() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads configuration from the environment without touching the global instance.
func Load() (*Config, error) {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreMemory, StoreSQLite, StorePostgres, StoreMongo:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if !solana.IsValidCluster(c.SolanaCluster) {
		return fmt.Errorf("unknown SOLANA_CLUSTER %q (want mainnet-beta, testnet or devnet)", c.SolanaCluster)
	}
	if !strings.HasPrefix(c.PublicURL, "http://") && !strings.HasPrefix(c.PublicURL, "https://") {
		return fmt.Errorf("PUBLIC_URL must be an absolute http(s) URL")
	}
	if c.FlowTTLMinutes <= 0 {
		return errors.New("FLOW_TTL_MINUTES must be positive")
	}
	if c.SessionTTLMinutes <= 0 {
		return errors.New("SESSION_TTL_MINUTES must be positive")
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetPublicURL returns the externally visible base URL without a trailing slash
func GetPublicURL() string {
	return strings.TrimRight(Get().PublicURL, "/")
}

// GetSolanaRPCURL returns Solana RPC URL from configuration
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

// GetFlowTTL returns how long deep-link key material is kept
func GetFlowTTL() time.Duration {
	return time.Duration(Get().FlowTTLMinutes) * time.Minute
}

// GetSessionTTL returns the idle lifetime of a browser session
func GetSessionTTL() time.Duration {
	return time.Duration(Get().SessionTTLMinutes) * time.Minute
}
