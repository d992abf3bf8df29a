package params

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// RPC holds the sequencer's external JSON-RPC/WebSocket listener settings.
type RPC struct {
	ListenAddr string
	// InjectionQueueSize is loaded from RPC_INJECTION_QUEUE_SIZE; no
	// component reads it, and no injection queue is bounded by it.
	InjectionQueueSize int
}

// Store holds the durable KV store settings.
type Store struct {
	DataDir string
}

// Signing holds a domain-separation tag loaded from SIGNING_DOMAIN_TAG. It
// is not passed to pkg/crypto: DomainDigest always uses its own fixed tag,
// so overriding this value does not change any signed digest.
type Signing struct {
	DomainTag string
}

type Config struct {
	RPC     RPC
	Store   Store
	Signing Signing
}

func Default() Config {
	return Config{
		RPC: RPC{
			ListenAddr:         ":8080",
			InjectionQueueSize: 256,
		},
		Store: Store{
			DataDir: "./data",
		},
		Signing: Signing{
			DomainTag: "tradez-order-v1\x00",
		},
	}
}

// LoadFromEnv loads configuration from a .env file (if present) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if addr := os.Getenv("RPC_LISTEN_ADDR"); addr != "" {
		cfg.RPC.ListenAddr = addr
	}
	if qs := os.Getenv("RPC_INJECTION_QUEUE_SIZE"); qs != "" {
		if n, err := strconv.Atoi(qs); err == nil {
			cfg.RPC.InjectionQueueSize = n
		}
	}
	if dir := os.Getenv("STORE_DATA_DIR"); dir != "" {
		cfg.Store.DataDir = dir
	}
	if tag := os.Getenv("SIGNING_DOMAIN_TAG"); tag != "" {
		cfg.Signing.DomainTag = tag
	}

	return cfg
}

// getEnv returns environment variable value or default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
