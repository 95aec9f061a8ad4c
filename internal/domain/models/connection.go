// Package models defines the domain data structures exchanged between the
// connection registry, the tool catalogue, and the transport layer.
package models

import "fmt"

// ConnectionConfig holds the caller-supplied parameters used to build a
// connection URI. It is never persisted; credentials live only in the URI
// string handed to the driver and must never be logged or returned
// unmasked.
type ConnectionConfig struct {
	Host        string `json:"host"`
	Port        int    `json:"port"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	AuthSource  string `json:"auth_source,omitempty"`
	Database    string `json:"database,omitempty"`
	MaxPoolSize int    `json:"max_pool_size,omitempty"`
}

// Connection pool bounds per the configure contract.
const (
	MinPoolSize     = 1
	MaxPoolSize     = 1000
	DefaultPoolSize = 10
	DefaultPort     = 27017
	DefaultHost     = "localhost"
	DefaultAuthDB   = "admin"
)

// Normalize fills defaults and clamps the pool size into [MinPoolSize,
// MaxPoolSize].
func (c *ConnectionConfig) Normalize() {
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.AuthSource == "" {
		c.AuthSource = DefaultAuthDB
	}
	if c.MaxPoolSize == 0 {
		c.MaxPoolSize = DefaultPoolSize
	}
	if c.MaxPoolSize < MinPoolSize {
		c.MaxPoolSize = MinPoolSize
	}
	if c.MaxPoolSize > MaxPoolSize {
		c.MaxPoolSize = MaxPoolSize
	}
}

// Validate checks the parts of the config that cannot be defaulted.
func (c *ConnectionConfig) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 0 and 65535, got %d", c.Port)
	}
	if c.Password != "" && c.Username == "" {
		return fmt.Errorf("password supplied without username")
	}
	return nil
}

// ConnectionStatus is the registry's last-known connection state. It is a
// derived display record: handle presence in the registry is the
// authoritative readiness signal.
type ConnectionStatus struct {
	Connected    bool   `json:"connected"`
	SanitizedURI string `json:"uri,omitempty"`
	LastError    string `json:"last_error,omitempty"`
}

// ServerSummary is the coarse server information returned by configure and
// test: version, uptime, and database counts.
type ServerSummary struct {
	Version     string         `json:"version"`
	Uptime      float64        `json:"uptime"`
	Connections map[string]any `json:"connections,omitempty"`
	Memory      map[string]any `json:"memory,omitempty"`
	Operations  map[string]any `json:"operations,omitempty"`
	Databases   DatabaseCounts `json:"databases"`
}

// DatabaseCounts splits the server's databases into user and system.
type DatabaseCounts struct {
	Total  int `json:"total"`
	User   int `json:"user_databases"`
	System int `json:"system_databases"`
}

// ConnectionSummary is the payload returned by a successful configure:
// the redacted connection parameters plus a server summary.
type ConnectionSummary struct {
	Connection map[string]any `json:"connection"`
	ServerInfo *ServerSummary `json:"server_info,omitempty"`
}
