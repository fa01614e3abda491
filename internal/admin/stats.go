// AngelaMos | 2026
// stats.go

package admin

import (
	"context"
	"database/sql"
	"runtime"

	"github.com/redis/go-redis/v9"
)

type DBProbe interface {
	Ping(ctx context.Context) error
	Stats() sql.DBStats
}

type CacheProbe interface {
	Ping(ctx context.Context) error
	PoolStats() *redis.PoolStats
}

type SystemStats struct {
	Database DatabaseStatus `json:"database"`
	Redis    RedisStatus    `json:"redis"`
	Runtime  RuntimeStats   `json:"runtime"`
}

type DatabaseStatus struct {
	Healthy bool         `json:"healthy"`
	Pool    *DBPoolStats `json:"pool,omitempty"`
}

type RedisStatus struct {
	Healthy bool            `json:"healthy"`
	Pool    *RedisPoolStats `json:"pool,omitempty"`
}

type DBPoolStats struct {
	MaxOpen           int    `json:"maxOpen"`
	Open              int    `json:"open"`
	InUse             int    `json:"inUse"`
	Idle              int    `json:"idle"`
	WaitCount         int64  `json:"waitCount"`
	WaitDuration      string `json:"waitDuration"`
	MaxIdleClosed     int64  `json:"maxIdleClosed"`
	MaxLifetimeClosed int64  `json:"maxLifetimeClosed"`
}

type RedisPoolStats struct {
	Hits       uint32 `json:"hits"`
	Misses     uint32 `json:"misses"`
	Timeouts   uint32 `json:"timeouts"`
	TotalConns uint32 `json:"totalConns"`
	IdleConns  uint32 `json:"idleConns"`
}

type RuntimeStats struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"goroutines"`
	NumCPU       int    `json:"cpus"`
	HeapAlloc    uint64 `json:"heapAllocBytes"`
	Sys          uint64 `json:"sysBytes"`
	NumGC        uint32 `json:"gcCycles"`
}

// Probes reports process health for the admin console. A nil probe is
// reported as unhealthy with no pool figures.
type Probes struct {
	DB    DBProbe
	Cache CacheProbe
}

func (p Probes) Collect(ctx context.Context) SystemStats {
	return SystemStats{
		Database: DatabaseStatus{
			Healthy: p.DB != nil && p.DB.Ping(ctx) == nil,
			Pool:    p.dbPool(),
		},
		Redis: RedisStatus{
			Healthy: p.Cache != nil && p.Cache.Ping(ctx) == nil,
			Pool:    p.redisPool(),
		},
		Runtime: readRuntime(),
	}
}

func (p Probes) dbPool() *DBPoolStats {
	if p.DB == nil {
		return nil
	}
	s := p.DB.Stats()
	return &DBPoolStats{
		MaxOpen:           s.MaxOpenConnections,
		Open:              s.OpenConnections,
		InUse:             s.InUse,
		Idle:              s.Idle,
		WaitCount:         s.WaitCount,
		WaitDuration:      s.WaitDuration.String(),
		MaxIdleClosed:     s.MaxIdleClosed,
		MaxLifetimeClosed: s.MaxLifetimeClosed,
	}
}

func (p Probes) redisPool() *RedisPoolStats {
	if p.Cache == nil {
		return nil
	}
	s := p.Cache.PoolStats()
	if s == nil {
		return nil
	}
	return &RedisPoolStats{
		Hits:       s.Hits,
		Misses:     s.Misses,
		Timeouts:   s.Timeouts,
		TotalConns: s.TotalConns,
		IdleConns:  s.IdleConns,
	}
}

func readRuntime() RuntimeStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return RuntimeStats{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		HeapAlloc:    mem.HeapAlloc,
		Sys:          mem.Sys,
		NumGC:        mem.NumGC,
	}
}
