package config

import (
	"os"
	"strconv"
	"strings"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName  string
	HTTPPort     string
	PostgresDSN  string
	KafkaBrokers []string

	// VoteSigningSecret keys the matchup ticket HMAC. It must never reach
	// clients; an empty value fails bootstrap.
	VoteSigningSecret string

	// Pairing policy knobs. Band and decay are fairness tuning values, not
	// protocol constants.
	PairingDecay       float64
	PairingMaxAttempts int
	PairingBandLow     float64
	PairingBandHigh    float64

	MinRationaleLength int

	EnableOutboxRelay bool
}

func Load() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "summer-of-making"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	var brokers []string
	for _, value := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		value = strings.TrimSpace(value)
		if value != "" {
			brokers = append(brokers, value)
		}
	}
	if len(brokers) == 0 {
		brokers = []string{"localhost:9092"}
	}

	return Config{
		ServiceName:  service,
		HTTPPort:     port,
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		KafkaBrokers: brokers,

		VoteSigningSecret: os.Getenv("VOTE_SIGNING_SECRET"),

		PairingDecay:       envFloat("PAIRING_DECAY", 0.95),
		PairingMaxAttempts: envInt("PAIRING_MAX_ATTEMPTS", 25),
		PairingBandLow:     envFloat("PAIRING_BAND_LOW", 0.7),
		PairingBandHigh:    envFloat("PAIRING_BAND_HIGH", 1.3),

		MinRationaleLength: envInt("MIN_RATIONALE_LENGTH", 10),

		EnableOutboxRelay: envBool("ENABLE_OUTBOX_RELAY", true),
	}, nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}

func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func envFloat(name string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return value
}
