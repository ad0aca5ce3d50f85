package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv(t *testing.T) {
	t.Run("defaults match the orchestration cadence", func(t *testing.T) {
		cfg := FromEnv()
		assert.Equal(t, 72*time.Hour, cfg.Sweeps.Dwell)
		assert.Equal(t, 10*time.Minute, cfg.Sweeps.EscalationInterval)
		assert.Equal(t, 2, cfg.Verification.Threshold)
		assert.Equal(t, 2, cfg.Verification.ContactsPerReport)
		assert.Empty(t, cfg.Database.URL)
		assert.Equal(t, "first_registered", cfg.Verification.ContactSelector)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("ESCALATION_DWELL", "1h")
		t.Setenv("ATTESTATION_CONTACTS", "3")
		t.Setenv("KAFKA_BROKERS", "a:9092, b:9092")
		t.Setenv("RATE_LIMIT_DISABLED", "true")

		cfg := FromEnv()
		assert.Equal(t, time.Hour, cfg.Sweeps.Dwell)
		assert.Equal(t, 3, cfg.Verification.ContactsPerReport)
		assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
		assert.True(t, cfg.RateLimit.Disabled)
	})

	t.Run("invalid values fall back", func(t *testing.T) {
		t.Setenv("ESCALATION_INTERVAL", "soon")
		t.Setenv("ATTESTATION_THRESHOLD", "-1")

		cfg := FromEnv()
		assert.Equal(t, 10*time.Minute, cfg.Sweeps.EscalationInterval)
		assert.Equal(t, 2, cfg.Verification.Threshold)
	})

	t.Run("contacts per report is raised to the minimum", func(t *testing.T) {
		t.Setenv("ATTESTATION_CONTACTS", "1")

		cfg := FromEnv()
		assert.Equal(t, MinContactsPerReport, cfg.Verification.ContactsPerReport)
	})
}
