package session

import (
	"testing"
	"time"

	as "github.com/aerospike/aerospike-client-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, []string{"127.0.0.1:3000"}, cfg.Hosts)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	require.NotNil(t, cfg.Settings)
	assert.False(t, cfg.Settings.ScansEnabled)
}

func TestParseHosts(t *testing.T) {
	hosts, err := parseHosts([]string{"10.0.0.1:3000", "node-2.local:3100"})
	require.NoError(t, err)

	assert.Equal(t, []*as.Host{
		as.NewHost("10.0.0.1", 3000),
		as.NewHost("node-2.local", 3100),
	}, hosts)
}

func TestParseHostsErrors(t *testing.T) {
	tests := []struct {
		name  string
		hosts []string
	}{
		{"empty", nil},
		{"missing port", []string{"10.0.0.1"}},
		{"non-numeric port", []string{"10.0.0.1:abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseHosts(tt.hosts)
			assert.Error(t, err)
		})
	}
}

func TestNewSessionRejectsInvalidHosts(t *testing.T) {
	_, err := NewSession(&Config{Hosts: []string{"bad-address"}})
	assert.Error(t, err)
}
