package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("PAIRING_DECAY", "")
	t.Setenv("PAIRING_MAX_ATTEMPTS", "")
	t.Setenv("MIN_RATIONALE_LENGTH", "")
	t.Setenv("ENABLE_OUTBOX_RELAY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "summer-of-making" {
		t.Fatalf("unexpected service name %s", cfg.ServiceName)
	}
	if cfg.HTTPPort != "8080" {
		t.Fatalf("unexpected port %s", cfg.HTTPPort)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("unexpected brokers %v", cfg.KafkaBrokers)
	}
	if cfg.PairingDecay != 0.95 || cfg.PairingMaxAttempts != 25 {
		t.Fatalf("unexpected pairing defaults %f/%d", cfg.PairingDecay, cfg.PairingMaxAttempts)
	}
	if cfg.PairingBandLow != 0.7 || cfg.PairingBandHigh != 1.3 {
		t.Fatalf("unexpected band defaults %f/%f", cfg.PairingBandLow, cfg.PairingBandHigh)
	}
	if cfg.MinRationaleLength != 10 {
		t.Fatalf("unexpected rationale minimum %d", cfg.MinRationaleLength)
	}
	if !cfg.EnableOutboxRelay {
		t.Fatalf("relay should default on")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "votes-staging")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("KAFKA_BROKERS", "broker-a:9092, broker-b:9092 ,")
	t.Setenv("VOTE_SIGNING_SECRET", "staging-secret")
	t.Setenv("PAIRING_DECAY", "0.9")
	t.Setenv("PAIRING_MAX_ATTEMPTS", "5")
	t.Setenv("PAIRING_BAND_LOW", "0.5")
	t.Setenv("PAIRING_BAND_HIGH", "2.0")
	t.Setenv("MIN_RATIONALE_LENGTH", "25")
	t.Setenv("ENABLE_OUTBOX_RELAY", "off")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ServiceName != "votes-staging" || cfg.HTTPPort != "9999" {
		t.Fatalf("unexpected overrides %s/%s", cfg.ServiceName, cfg.HTTPPort)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "broker-b:9092" {
		t.Fatalf("broker list not trimmed: %v", cfg.KafkaBrokers)
	}
	if cfg.VoteSigningSecret != "staging-secret" {
		t.Fatalf("signing secret not read")
	}
	if cfg.PairingDecay != 0.9 || cfg.PairingMaxAttempts != 5 || cfg.PairingBandLow != 0.5 || cfg.PairingBandHigh != 2.0 {
		t.Fatalf("pairing knobs not read: %+v", cfg)
	}
	if cfg.MinRationaleLength != 25 {
		t.Fatalf("rationale minimum not read: %d", cfg.MinRationaleLength)
	}
	if cfg.EnableOutboxRelay {
		t.Fatalf("relay should be disabled by override")
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("PAIRING_DECAY", "not-a-number")
	t.Setenv("PAIRING_MAX_ATTEMPTS", "many")
	t.Setenv("ENABLE_OUTBOX_RELAY", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.PairingDecay != 0.95 || cfg.PairingMaxAttempts != 25 {
		t.Fatalf("malformed values should fall back, got %f/%d", cfg.PairingDecay, cfg.PairingMaxAttempts)
	}
	if !cfg.EnableOutboxRelay {
		t.Fatalf("unparseable bool should fall back to default")
	}
}
