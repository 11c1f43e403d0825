package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Blockchain BlockchainConfig
	Contract   ContractConfig
	Paymaster  PaymasterConfig
	Web3Auth   Web3AuthConfig
	Wert       WertConfig
	Catalog    CatalogConfig
	Security   SecurityConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode + "&prepare_threshold=0"
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	PASSWORD string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// BlockchainConfig holds the RPC endpoint of the network the collection
// lives on.
type BlockchainConfig struct {
	RPCURL  string
	ChainID int64
}

// ContractConfig holds the NFT collection contract and the custodial wallet
// that holds lazy-minted tokens until they are bought.
type ContractConfig struct {
	Address             string
	CustodianAddress    string
	CustodianPrivateKey string
}

// PaymasterConfig holds gas sponsorship settings for batched transactions.
type PaymasterConfig struct {
	URL    string
	APIKey string
	Mode   string
}

// Web3AuthConfig holds the hosted wallet provider settings.
type Web3AuthConfig struct {
	ClientID       string
	Network        string
	GoogleVerifier string
	GoogleClientID string
	JWKSURL        string
}

// WertConfig holds the fiat payment widget settings. SigningKey is the hex
// private key whose public half is registered with the widget partner account.
type WertConfig struct {
	PartnerID  string
	Origin     string
	Commodity  string
	Network    string
	SigningKey string
	Width      int
	Height     int
}

// CatalogConfig holds the catalog source and media gateway settings.
type CatalogConfig struct {
	Path        string
	IPFSGateway string
}

// SecurityConfig holds security encryption keys
type SecurityConfig struct {
	SessionEncryptionKey string
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "nftmarket"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			PASSWORD: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 15*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 7*24*time.Hour),
		},
		Blockchain: BlockchainConfig{
			RPCURL:  getEnv("GOERLI_RPC_URL", "https://rpc.ankr.com/eth_goerli"),
			ChainID: int64(getEnvAsInt("CHAIN_ID", 5)),
		},
		Contract: ContractConfig{
			Address:             getEnv("NFT_CONTRACT_ADDRESS", "0x091541AC5b5B1BCBd879F4dCD07B5F01007aBA7B"),
			CustodianAddress:    getEnv("CUSTODIAN_ADDRESS", ""),
			CustodianPrivateKey: getEnv("CUSTODIAN_PRIVATE_KEY", ""),
		},
		Paymaster: PaymasterConfig{
			URL:    getEnv("PAYMASTER_URL", ""),
			APIKey: getEnv("PAYMASTER_API_KEY", ""),
			Mode:   getEnv("PAYMASTER_MODE", "sponsor"),
		},
		Web3Auth: Web3AuthConfig{
			ClientID:       getEnv("WEB3AUTH_CLIENT_ID", ""),
			Network:        getEnv("WEB3AUTH_NETWORK", "testnet"),
			GoogleVerifier: getEnv("WEB3AUTH_GOOGLE_VERIFIER", ""),
			GoogleClientID: getEnv("WEB3AUTH_GOOGLE_CLIENT_ID", ""),
			JWKSURL:        getEnv("WEB3AUTH_JWKS_URL", "https://api.openlogin.com/jwks"),
		},
		Wert: WertConfig{
			PartnerID:  getEnv("WERT_PARTNER_ID", ""),
			Origin:     getEnv("WERT_ORIGIN", "https://sandbox.wert.io"),
			Commodity:  getEnv("WERT_COMMODITY", "ETH:goerli"),
			Network:    getEnv("WERT_NETWORK", "goerli"),
			SigningKey: getEnv("WERT_SIGNING_KEY", ""),
			Width:      getEnvAsInt("WERT_WIDGET_WIDTH", 400),
			Height:     getEnvAsInt("WERT_WIDGET_HEIGHT", 600),
		},
		Catalog: CatalogConfig{
			Path:        getEnv("CATALOG_PATH", "catalog.json"),
			IPFSGateway: getEnv("IPFS_GATEWAY_URL", "https://ipfs.io/ipfs/"),
		},
		Security: SecurityConfig{
			SessionEncryptionKey: getEnv("SESSION_ENCRYPTION_KEY", "0000000000000000000000000000000000000000000000000000000000000000"), // 32-bytes hex string
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
