package mint

import "sync"

// Status is the result of running one compilation unit.
type Status int

const (
	StatusOK Status = iota
	StatusStaticError
	StatusRuntimeError
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusStaticError:
		return "static error"
	case StatusRuntimeError:
		return "runtime error"
	}
	return "unknown"
}

// ExitCode maps s to the process exit code a driver should use.
func (s Status) ExitCode() int {
	switch s {
	case StatusStaticError:
		return 65
	case StatusRuntimeError:
		return 70
	}
	return 0
}

type RuntimeConfig struct {
	CompileCacheSize   int64
	CacheCompiledUnits bool
	LogExecution       bool
}

var (
	runtimeConfigMu sync.RWMutex
	runtimeConfig   = RuntimeConfig{
		CompileCacheSize:   1 << 20,
		CacheCompiledUnits: true,
		LogExecution:       true,
	}
)

func SetRuntimeConfig(cfg RuntimeConfig) {
	runtimeConfigMu.Lock()
	defer runtimeConfigMu.Unlock()
	runtimeConfig = cfg
}

func GetRuntimeConfig() RuntimeConfig {
	runtimeConfigMu.RLock()
	defer runtimeConfigMu.RUnlock()
	return runtimeConfig
}
