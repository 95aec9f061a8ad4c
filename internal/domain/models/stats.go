package models

import "math"

// SystemDatabases are MongoDB's own databases, filtered from user-facing
// listings.
var SystemDatabases = map[string]bool{
	"admin":  true,
	"local":  true,
	"config": true,
}

// IsSystemDatabase reports whether name is one of MongoDB's own databases.
func IsSystemDatabase(name string) bool {
	return SystemDatabases[name]
}

// DatabaseInfo aggregates dbStats output for one database.
type DatabaseInfo struct {
	Name        string  `json:"name"`
	SizeOnDisk  float64 `json:"size_on_disk"`
	Collections int     `json:"collections"`
	Objects     float64 `json:"objects"`
	AvgObjSize  float64 `json:"avg_obj_size"`
	DataSize    float64 `json:"data_size"`
	StorageSize float64 `json:"storage_size"`
	Indexes     float64 `json:"indexes"`
	IndexSize   float64 `json:"index_size"`
}

// IndexInfo describes one index on a collection.
type IndexInfo struct {
	Name string         `json:"name"`
	Key  map[string]any `json:"key"`
}

// IndexKey is one field of an index specification. Direction is 1 or -1
// for ordered indexes, or a string kind such as "text" or "2dsphere".
type IndexKey struct {
	Field     string `json:"field"`
	Direction any    `json:"direction"`
}

// CollectionInfo aggregates $collStats output for one collection.
type CollectionInfo struct {
	Name           string      `json:"name"`
	Count          float64     `json:"count"`
	Size           float64     `json:"size"`
	AvgObjSize     float64     `json:"avg_obj_size"`
	StorageSize    float64     `json:"storage_size"`
	TotalIndexSize float64     `json:"total_index_size"`
	Indexes        []IndexInfo `json:"indexes"`
}

// ServerStatus is the parsed serverStatus command output. The sub-document
// maps keep the raw driver fields; derivations below compute the summary
// shapes.
type ServerStatus struct {
	Version     string         `json:"version"`
	Uptime      float64        `json:"uptime"`
	Connections map[string]any `json:"connections"`
	Memory      map[string]any `json:"memory"`
	Operations  map[string]any `json:"operations"`
	Network     map[string]any `json:"network"`
}

// SystemStats aggregates per-database statistics across the server.
type SystemStats struct {
	DatabasesCount   int            `json:"databases_count"`
	TotalCollections int            `json:"total_collections"`
	TotalObjects     float64        `json:"total_objects"`
	TotalSize        float64        `json:"total_size"`
	AdminStats       map[string]any `json:"admin_stats,omitempty"`
}

// HealthInfo is the derived server-health summary.
type HealthInfo struct {
	Status        string         `json:"status"`
	Version       string         `json:"version"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	UptimeHours   float64        `json:"uptime_hours"`
	UptimeDays    float64        `json:"uptime_days"`
	Connections   ConnectionLoad `json:"connections"`
	Memory        MemoryUsage    `json:"memory"`
	Operations    OperationLoad  `json:"operations"`
	Network       map[string]any `json:"network,omitempty"`
}

// ConnectionLoad summarizes the server's connection slots.
type ConnectionLoad struct {
	Current         float64 `json:"current"`
	Available       float64 `json:"available"`
	Total           float64 `json:"total"`
	UsagePercentage float64 `json:"usage_percentage"`
}

// MemoryUsage reports resident/virtual/mapped memory with MB and GB
// derivations (1024-based, rounded to 2 decimals).
type MemoryUsage struct {
	ResidentMB float64 `json:"resident_mb"`
	ResidentGB float64 `json:"resident_gb"`
	VirtualMB  float64 `json:"virtual_mb"`
	MappedMB   float64 `json:"mapped_mb"`
}

// OperationLoad reports opcounter totals.
type OperationLoad struct {
	Total   float64        `json:"total"`
	Details map[string]any `json:"details,omitempty"`
}

// PerformanceMetrics is the derived throughput summary.
type PerformanceMetrics struct {
	Operations        map[string]float64 `json:"operations"`
	Network           NetworkMetrics     `json:"network"`
	UptimeHours       float64            `json:"uptime_hours"`
	OperationsPerHour float64            `json:"operations_per_hour"`
}

// NetworkMetrics reports raw byte counts plus MB derivations.
type NetworkMetrics struct {
	BytesIn          float64 `json:"bytes_in"`
	BytesInMB        float64 `json:"bytes_in_mb"`
	BytesOut         float64 `json:"bytes_out"`
	BytesOutMB       float64 `json:"bytes_out_mb"`
	NumRequests      float64 `json:"num_requests"`
	AvgRequestSizeMB float64 `json:"avg_request_size_mb"`
}

// Health derives the health summary from a server status.
func (s *ServerStatus) Health() HealthInfo {
	current := Num(s.Connections, "current")
	available := Num(s.Connections, "available")
	total := current + available

	usage := 0.0
	if total > 0 {
		usage = Round2(current / total * 100)
	}

	residentMB := Num(s.Memory, "resident") / 1024 / 1024

	return HealthInfo{
		Status:        "healthy",
		Version:       s.Version,
		UptimeSeconds: s.Uptime,
		UptimeHours:   Round2(s.Uptime / 3600),
		UptimeDays:    Round2(s.Uptime / 86400),
		Connections: ConnectionLoad{
			Current:         current,
			Available:       available,
			Total:           total,
			UsagePercentage: usage,
		},
		Memory: MemoryUsage{
			ResidentMB: Round2(residentMB),
			ResidentGB: Round2(residentMB / 1024),
			VirtualMB:  Round2(Num(s.Memory, "virtual") / 1024 / 1024),
			MappedMB:   Round2(Num(s.Memory, "mapped") / 1024 / 1024),
		},
		Operations: OperationLoad{
			Total:   SumNums(s.Operations),
			Details: s.Operations,
		},
		Network: s.Network,
	}
}

// Performance derives the throughput summary from a server status.
func (s *ServerStatus) Performance() PerformanceMetrics {
	totalOps := SumNums(s.Operations)

	bytesIn := Num(s.Network, "bytesIn")
	bytesOut := Num(s.Network, "bytesOut")
	numRequests := Num(s.Network, "numRequests")
	bytesInMB := bytesIn / 1024 / 1024

	avgRequestMB := 0.0
	if numRequests > 0 {
		avgRequestMB = Round4(bytesInMB / numRequests)
	}

	opsPerHour := 0.0
	if s.Uptime > 0 {
		opsPerHour = Round2(totalOps / (s.Uptime / 3600))
	}

	return PerformanceMetrics{
		Operations: map[string]float64{
			"total":   totalOps,
			"insert":  Num(s.Operations, "insert"),
			"query":   Num(s.Operations, "query"),
			"update":  Num(s.Operations, "update"),
			"delete":  Num(s.Operations, "delete"),
			"getmore": Num(s.Operations, "getmore"),
			"command": Num(s.Operations, "command"),
		},
		Network: NetworkMetrics{
			BytesIn:          bytesIn,
			BytesInMB:        Round2(bytesInMB),
			BytesOut:         bytesOut,
			BytesOutMB:       Round2(bytesOut / 1024 / 1024),
			NumRequests:      numRequests,
			AvgRequestSizeMB: avgRequestMB,
		},
		UptimeHours:       Round2(s.Uptime / 3600),
		OperationsPerHour: opsPerHour,
	}
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round4 rounds to 4 decimal places.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Num extracts a numeric field from a driver result document. BSON decodes
// numbers variously as int32, int64, or float64 depending on the server.
func Num(doc map[string]any, key string) float64 {
	if doc == nil {
		return 0
	}
	return ToFloat(doc[key])
}

// SumNums sums every numeric value in a document, ignoring the rest.
func SumNums(doc map[string]any) float64 {
	var total float64
	for _, v := range doc {
		total += ToFloat(v)
	}
	return total
}

// ToFloat converts the numeric types a BSON document can carry.
func ToFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	default:
		return 0
	}
}
