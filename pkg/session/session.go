// Package session manages the Aerospike client connection and exposes it
// through the narrow interface the query engine consumes.
package session

import (
	"fmt"
	"net"
	"strconv"
	"time"

	as "github.com/aerospike/aerospike-client-go/v7"

	"github.com/jnopnop/spring-data-aerospike/pkg/config"
	"github.com/jnopnop/spring-data-aerospike/pkg/core"
)

// Config holds the connection configuration.
type Config struct {
	// Hosts lists cluster seed nodes as "host:port" addresses.
	Hosts []string `json:"hosts" yaml:"hosts"`

	User     string        `json:"user" yaml:"user"`
	Password string        `json:"password" yaml:"password"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"`

	// Settings carries the query-layer behaviour flags; nil means defaults.
	Settings *config.Settings `json:"settings" yaml:"settings"`
}

// DefaultConfig returns a configuration pointing at a local single-node
// cluster.
func DefaultConfig() *Config {
	return &Config{
		Hosts:    []string{"127.0.0.1:3000"},
		Timeout:  30 * time.Second,
		Settings: config.Default(),
	}
}

// Session owns the Aerospike client for the lifetime of the process.
type Session struct {
	config *Config
	client *as.Client
}

// NewSession connects to the cluster described by cfg.
func NewSession(cfg *Config) (*Session, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Settings == nil {
		cfg.Settings = config.Default()
	}
	hosts, err := parseHosts(cfg.Hosts)
	if err != nil {
		return nil, err
	}

	clientPolicy := as.NewClientPolicy()
	clientPolicy.User = cfg.User
	clientPolicy.Password = cfg.Password
	if cfg.Timeout > 0 {
		clientPolicy.Timeout = cfg.Timeout
	}

	client, aerr := as.NewClientWithPolicyAndHost(clientPolicy, hosts...)
	if aerr != nil {
		return nil, fmt.Errorf("failed to connect to aerospike: %w", aerr)
	}

	writePolicy := client.DefaultWritePolicy
	if writePolicy != nil {
		writePolicy.SendKey = cfg.Settings.SendKey
	}
	if client.DefaultQueryPolicy != nil {
		client.DefaultQueryPolicy.SendKey = cfg.Settings.SendKey
	}

	return &Session{config: cfg, client: client}, nil
}

// Settings returns the effective query-layer settings.
func (s *Session) Settings() *config.Settings {
	return s.config.Settings
}

// NativeClient returns the raw Aerospike client.
func (s *Session) NativeClient() *as.Client {
	return s.client
}

// Client returns the connection through the query engine's interface.
func (s *Session) Client() core.Client {
	return WrapClient(s.client)
}

// Close terminates the cluster connection.
func (s *Session) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

// WrapClient adapts a raw Aerospike client to core.Client.
func WrapClient(client *as.Client) core.Client {
	return clientAdapter{client}
}

type clientAdapter struct {
	*as.Client
}

func (c clientAdapter) Query(policy *as.QueryPolicy, statement *as.Statement) (core.ResultStream, as.Error) {
	recordset, err := c.Client.Query(policy, statement)
	if err != nil {
		return nil, err
	}
	return recordset, nil
}

func parseHosts(addresses []string) ([]*as.Host, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("at least one seed host is required")
	}
	hosts := make([]*as.Host, len(addresses))
	for i, addr := range addresses {
		name, portStr, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid host %q: %w", addr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port in host %q: %w", addr, err)
		}
		hosts[i] = as.NewHost(name, port)
	}
	return hosts, nil
}
