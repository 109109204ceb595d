package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/potledger/internal/chips"
)

const sampleConfig = `
settings {
  log_level        = "debug"
  workers          = 8
  default_currency = "USD"
}

ladder "cash" {
  denomination {
    value     = 1
    max_stack = 10
  }
  denomination {
    value    = 5
  }
  denomination {
    value     = 25
    category  = "big"
    max_stack = 4
  }
}

currency "USD" {
  ladder         = "cash"
  value_per_chip = 100
}

currency "EUR" {
  value_per_chip = 50
}
`

func TestParse(t *testing.T) {
	t.Parallel()

	cfg, err := Parse([]byte(sampleConfig), "test.hcl")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "debug", cfg.Settings.LogLevel)
	assert.Equal(t, 8, cfg.Settings.Workers)

	ladder, perChip, err := cfg.Currency("USD")
	require.NoError(t, err)
	assert.Equal(t, 100, perChip)
	assert.Equal(t, chips.Ladder{
		Name: "cash",
		Denominations: []chips.Denomination{
			{Value: 1, Category: chips.Small, MaxStack: 10},
			{Value: 5, Category: chips.Small, MaxStack: 20},
			{Value: 25, Category: chips.Big, MaxStack: 4},
		},
	}, ladder)

	ladder, perChip, err = cfg.Currency("eur")
	require.NoError(t, err)
	assert.Equal(t, 50, perChip)
	assert.Equal(t, "default", ladder.Name, "currencies without a ladder use the built-in one")

	ladder, _, err = cfg.Currency("")
	require.NoError(t, err)
	assert.Equal(t, "cash", ladder.Name)

	_, _, err = cfg.Currency("GBP")
	assert.Error(t, err)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.hcl"))
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.Equal(t, 4, cfg.Settings.Workers)

	ladder, perChip, err := cfg.Currency("")
	require.NoError(t, err)
	assert.Equal(t, 1, perChip)
	assert.Equal(t, chips.DefaultLadder(), ladder)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "potledger.hcl")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, cfg.Ladders, 1)
	assert.Len(t, cfg.Currencies, 2)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte(`ladder "x" {`), "broken.hcl")
	assert.ErrorContains(t, err, "failed to parse HCL file")

	_, err = Parse([]byte(`
ladder "x" {
  denomination {
    category = "small"
  }
}`), "novalue.hcl")
	assert.ErrorContains(t, err, "failed to decode HCL")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "descending ladder",
			src: `
ladder "bad" {
  denomination {
    value = 5
  }
  denomination {
    value = 1
  }
}`,
			want: "not above",
		},
		{
			name: "unknown category",
			src: `
ladder "bad" {
  denomination {
    value    = 5
    category = "plaque"
  }
}`,
			want: "unknown category",
		},
		{
			name: "unknown ladder reference",
			src: `
currency "USD" {
  ladder = "nope"
}`,
			want: "unknown ladder",
		},
		{
			name: "negative divisor",
			src: `
currency "USD" {
  value_per_chip = -1
}`,
			want: "value_per_chip must be positive",
		},
		{
			name: "duplicate ladder",
			src: `
ladder "a" {
  denomination {
    value = 1
  }
}
ladder "a" {
  denomination {
    value = 1
  }
}`,
			want: "defined more than once",
		},
		{
			name: "default currency missing",
			src: `
settings {
  default_currency = "JPY"
}
currency "USD" {}`,
			want: "default currency JPY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := Parse([]byte(tt.src), tt.name+".hcl")
			require.NoError(t, err)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
