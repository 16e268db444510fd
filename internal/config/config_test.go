package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("Expect: defaults when nothing is set", func(t *testing.T) {
		cfg, err := New()

		require.NoError(t, err)
		assert.Equal(t, "barbers", cfg.BarbersDir)
		assert.Equal(t, "_debt", cfg.ReportSuffix)
		assert.Equal(t, "data.json", cfg.DataFile)
		assert.Equal(t, "combined.json", cfg.CombinedFile)
		assert.True(t, cfg.StandardRate.Equal(decimal.NewFromInt(7)))
		assert.True(t, cfg.RateOverrides["Genesis"].Equal(decimal.NewFromInt(5)))
		assert.Equal(t, time.Sunday, cfg.ExcludedWeekday)
		assert.Equal(t, 3000, cfg.APIPort)
		assert.Empty(t, cfg.DatabaseURL)
	})

	t.Run("Expect: environment overrides defaults", func(t *testing.T) {
		t.Setenv("BARBERS_DIR", "team")
		t.Setenv("STANDARD_RATE", "8.5")
		t.Setenv("RATE_OVERRIDES", "Genesis=4, Ana Maria=6")
		t.Setenv("EXCLUDED_WEEKDAY", "saturday")
		t.Setenv("API_PORT", "8080")
		t.Setenv("LOG_FORMAT", "JSON")

		cfg, err := New()

		require.NoError(t, err)
		assert.Equal(t, "team", cfg.BarbersDir)
		assert.True(t, cfg.StandardRate.Equal(decimal.RequireFromString("8.5")))
		assert.Len(t, cfg.RateOverrides, 2)
		assert.True(t, cfg.RateOverrides["Ana Maria"].Equal(decimal.NewFromInt(6)))
		assert.Equal(t, time.Saturday, cfg.ExcludedWeekday)
		assert.Equal(t, 8080, cfg.APIPort)
		assert.Equal(t, "json", cfg.LogFormat)
	})

	t.Run("Expect: error for a non numeric port", func(t *testing.T) {
		t.Setenv("API_PORT", "abc")

		_, err := New()

		assert.Error(t, err)
	})

	t.Run("Expect: error for an unknown log level", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "loud")

		_, err := New()

		assert.Error(t, err)
	})

	t.Run("Expect: error when the standard rate drops below the default discount", func(t *testing.T) {
		t.Setenv("STANDARD_RATE", "3")

		_, err := New()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid rate override Genesis=5")
	})

	t.Run("Expect: error for an override above the standard rate", func(t *testing.T) {
		t.Setenv("RATE_OVERRIDES", "Genesis=9")

		_, err := New()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid rate override Genesis=9")
	})

	t.Run("Expect: error for an override equal to the standard rate", func(t *testing.T) {
		t.Setenv("RATE_OVERRIDES", "Genesis=7.00")

		_, err := New()

		assert.Error(t, err)
	})

	t.Run("Expect: error for a negative standard rate", func(t *testing.T) {
		t.Setenv("STANDARD_RATE", "-1")

		_, err := New()

		assert.Error(t, err)
	})
}

func TestParseRateOverrides(t *testing.T) {
	t.Run("should parse several entries", func(t *testing.T) {
		overrides, err := ParseRateOverrides("Genesis=5,David=6.25,")

		require.NoError(t, err)
		assert.Len(t, overrides, 2)
		assert.Equal(t, "6.25", overrides["David"].String())
	})

	t.Run("should reject entries without a rate", func(t *testing.T) {
		_, err := ParseRateOverrides("Genesis")
		assert.Error(t, err)
	})

	t.Run("should reject non numeric rates", func(t *testing.T) {
		_, err := ParseRateOverrides("Genesis=five")
		assert.Error(t, err)
	})

	t.Run("should reject negative rates", func(t *testing.T) {
		_, err := ParseRateOverrides("Genesis=-5")
		assert.Error(t, err)
	})
}

func TestParseWeekday(t *testing.T) {
	cases := map[string]time.Weekday{
		"0":         time.Sunday,
		"6":         time.Saturday,
		"sunday":    time.Sunday,
		"Mon":       time.Monday,
		"WEDNESDAY": time.Wednesday,
	}
	for input, expected := range cases {
		t.Run(input, func(t *testing.T) {
			day, err := ParseWeekday(input)
			assert.NoError(t, err)
			assert.Equal(t, expected, day)
		})
	}

	for _, input := range []string{"7", "-1", "someday"} {
		t.Run("invalid "+input, func(t *testing.T) {
			_, err := ParseWeekday(input)
			assert.Error(t, err)
		})
	}
}
