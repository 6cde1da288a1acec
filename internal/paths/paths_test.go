package paths

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempDataSetName(t *testing.T) {
	tests := []struct {
		name        string
		hlq         string
		seed        string
		shouldError bool
		errContains string
	}{
		{
			name: "Uppercases HLQ",
			hlq:  "ibmuser",
			seed: "archive-dump",
		},
		{
			name:        "Empty HLQ",
			hlq:         "  ",
			seed:        "x",
			shouldError: true,
			errContains: "without a high-level qualifier",
		},
		{
			name:        "HLQ too long",
			hlq:         "LONGERTHAN8",
			seed:        "x",
			shouldError: true,
			errContains: "failed validation",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dsn, err := TempDataSetName(tt.hlq, tt.seed)
			if tt.shouldError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(dsn, strings.ToUpper(strings.TrimSpace(tt.hlq))+".ZOSCORE.T"), dsn)
		})
	}
}

func TestTempDataSetNameIsStablePerSeed(t *testing.T) {
	a, err := TempDataSetName("USER", "seed-1")
	require.NoError(t, err)
	b, err := TempDataSetName("USER", "seed-1")
	require.NoError(t, err)
	c, err := TempDataSetName("USER", "seed-2")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDefaultHLQ(t *testing.T) {
	t.Setenv("HLQ", "")
	t.Setenv("LOGNAME", "averylongname")
	assert.Equal(t, "AVERYLON", DefaultHLQ())

	t.Setenv("HLQ", "prod")
	assert.Equal(t, "PROD", DefaultHLQ())
}
