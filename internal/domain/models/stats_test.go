// Package models_test provides unit tests for the domain models.
package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mongobridge/tool-service/internal/domain/models"
)

func TestServerStatus_Performance_OperationsPerHour(t *testing.T) {
	status := &models.ServerStatus{
		Uptime: 86400,
		Operations: map[string]any{
			"insert":  int64(1600),
			"query":   int64(2000),
			"update":  int32(1000),
			"delete":  int64(500),
			"getmore": int64(500),
			"command": int64(1000),
		},
	}

	perf := status.Performance()
	assert.Equal(t, 6600.0, perf.Operations["total"])
	assert.Equal(t, 275.0, perf.OperationsPerHour)
	assert.Equal(t, 24.0, perf.UptimeHours)
}

func TestServerStatus_Performance_ZeroUptime(t *testing.T) {
	status := &models.ServerStatus{
		Uptime:     0,
		Operations: map[string]any{"insert": int64(100)},
	}

	perf := status.Performance()
	assert.Equal(t, 0.0, perf.OperationsPerHour)
}

func TestServerStatus_Health_MemoryDerivations(t *testing.T) {
	status := &models.ServerStatus{
		Version: "7.0.5",
		Uptime:  7200,
		Memory: map[string]any{
			"resident": int64(1073741824),
			"virtual":  int64(2147483648),
		},
	}

	health := status.Health()
	assert.Equal(t, 1024.0, health.Memory.ResidentMB)
	assert.Equal(t, 1.0, health.Memory.ResidentGB)
	assert.Equal(t, 2048.0, health.Memory.VirtualMB)
	assert.Equal(t, 2.0, health.UptimeHours)
	assert.Equal(t, "7.0.5", health.Version)
}

func TestServerStatus_Health_ConnectionUsage(t *testing.T) {
	status := &models.ServerStatus{
		Connections: map[string]any{
			"current":   int32(25),
			"available": int32(75),
		},
	}

	health := status.Health()
	assert.Equal(t, 25.0, health.Connections.Current)
	assert.Equal(t, 100.0, health.Connections.Total)
	assert.Equal(t, 25.0, health.Connections.UsagePercentage)
}

func TestServerStatus_Health_ZeroConnections(t *testing.T) {
	status := &models.ServerStatus{Connections: map[string]any{}}

	health := status.Health()
	assert.Equal(t, 0.0, health.Connections.UsagePercentage)
}

func TestServerStatus_Performance_NetworkDerivations(t *testing.T) {
	status := &models.ServerStatus{
		Uptime: 3600,
		Network: map[string]any{
			"bytesIn":     int64(10485760),
			"bytesOut":    int64(20971520),
			"numRequests": int64(100),
		},
	}

	perf := status.Performance()
	assert.Equal(t, 10.0, perf.Network.BytesInMB)
	assert.Equal(t, 20.0, perf.Network.BytesOutMB)
	assert.Equal(t, 0.1, perf.Network.AvgRequestSizeMB)
}

func TestServerStatus_Performance_ZeroRequests(t *testing.T) {
	status := &models.ServerStatus{Network: map[string]any{"bytesIn": int64(1024)}}

	perf := status.Performance()
	assert.Equal(t, 0.0, perf.Network.AvgRequestSizeMB)
}

func TestConnectionConfig_Normalize(t *testing.T) {
	cfg := models.ConnectionConfig{}
	cfg.Normalize()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, 27017, cfg.Port)
	assert.Equal(t, "admin", cfg.AuthSource)
	assert.Equal(t, 10, cfg.MaxPoolSize)
}

func TestConnectionConfig_NormalizeClampsPoolSize(t *testing.T) {
	cfg := models.ConnectionConfig{MaxPoolSize: 5000}
	cfg.Normalize()
	assert.Equal(t, 1000, cfg.MaxPoolSize)

	cfg = models.ConnectionConfig{MaxPoolSize: -3}
	cfg.Normalize()
	assert.Equal(t, 1, cfg.MaxPoolSize)
}

func TestConnectionConfig_Validate(t *testing.T) {
	cfg := models.ConnectionConfig{Password: "secret"}
	assert.Error(t, cfg.Validate())

	cfg = models.ConnectionConfig{Port: 99999}
	assert.Error(t, cfg.Validate())

	cfg = models.ConnectionConfig{Username: "u", Password: "p", Port: 27017}
	assert.NoError(t, cfg.Validate())
}

func TestIsSystemDatabase(t *testing.T) {
	assert.True(t, models.IsSystemDatabase("admin"))
	assert.True(t, models.IsSystemDatabase("local"))
	assert.True(t, models.IsSystemDatabase("config"))
	assert.False(t, models.IsSystemDatabase("app"))
}
