package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the immutable per-process configuration. It is built once in main
// and injected into constructors; nothing reads the environment after startup.
type Config struct {
	Addr          string
	JWTSigningKey string

	// ReadHeaderTimeout bounds how long the server waits for request headers
	// before dropping a slow client.
	ReadHeaderTimeout time.Duration
	// ShutdownTimeout bounds graceful drain on SIGTERM.
	ShutdownTimeout time.Duration

	DatabaseURL string

	Redis RedisConfig

	Kafka KafkaConfig

	MFA MFAConfig

	IPFS IPFSConfig

	Ledger LedgerConfig

	// ExternalCallTimeout bounds every render/upload/mint/verify call during
	// the approval saga. A timed-out call fails the saga like any other error.
	ExternalCallTimeout time.Duration
}

// RedisConfig captures the optional verification cache backend.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	VerifyTTL    time.Duration
}

// KafkaConfig captures the lifecycle event broker.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// MFAConfig captures the external MFA verifier endpoint.
type MFAConfig struct {
	URL     string
	Timeout time.Duration
}

// IPFSConfig captures the Pinata-backed content store.
type IPFSConfig struct {
	PinataJWT string
	Gateway   string
	UseMock   bool
}

// LedgerConfig captures the blockchain endpoint and contract addresses.
type LedgerConfig struct {
	RPCURL                  string
	IssuanceContractAddress string
	NFTContractAddress      string
	AdminPrivateKey         string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Addr:              envOr("DOCMINT_ADDR", ":8080"),
		JWTSigningKey:     envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		ReadHeaderTimeout: envDurationOr("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		ShutdownTimeout:   envDurationOr("HTTP_SHUTDOWN_TIMEOUT", 15*time.Second),
		DatabaseURL:       envOr("DATABASE_URL", "postgres://localhost:5432/docmint?sslmode=disable"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envIntOr("REDIS_POOL_SIZE", 10),
			MinIdleConns: envIntOr("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDurationOr("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDurationOr("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDurationOr("REDIS_WRITE_TIMEOUT", 3*time.Second),
			VerifyTTL:    envDurationOr("VERIFY_CACHE_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers: splitNonEmpty(os.Getenv("KAFKA_BROKERS")),
			Topic:   envOr("KAFKA_DOCUMENT_EVENTS_TOPIC", "docmint.document-events"),
		},
		MFA: MFAConfig{
			URL:     envOr("MFA_SERVICE_URL", "http://localhost:50051"),
			Timeout: envDurationOr("MFA_TIMEOUT", 5*time.Second),
		},
		IPFS: IPFSConfig{
			PinataJWT: os.Getenv("PINATA_JWT"),
			Gateway:   envOr("PINATA_GATEWAY", "https://gateway.pinata.cloud"),
			UseMock:   os.Getenv("USE_MOCK_IPFS") == "true",
		},
		Ledger: LedgerConfig{
			RPCURL:                  os.Getenv("BLOCKCHAIN_RPC_URL"),
			IssuanceContractAddress: os.Getenv("ISSUANCE_CONTRACT_ADDRESS"),
			NFTContractAddress:      os.Getenv("DOCUMENT_NFT_CONTRACT_ADDRESS"),
			AdminPrivateKey:         os.Getenv("ADMIN_PRIVATE_KEY"),
		},
		ExternalCallTimeout: envDurationOr("EXTERNAL_CALL_TIMEOUT", 30*time.Second),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
