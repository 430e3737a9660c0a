package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SESSION_TTL_HOURS", "DATABASE_PATH", "SOLVER_WORKERS", "RESULT_LIMIT", "MIN_SCORE"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, "", c.DatabasePath)
	assert.Equal(t, 20, c.ResultLimit)
	assert.Equal(t, 10.0, c.MinScore)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("SOLVER_WORKERS", "not-a-number")
	t.Setenv("MIN_SCORE", "25.5")
	c := Load()
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, 2*time.Hour, c.SessionTTL)
	assert.Equal(t, 0, c.Workers)
	assert.Equal(t, 25.5, c.MinScore)
}
