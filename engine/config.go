package engine

import (
	"runtime"
	"time"
)

// Configuration options
const DefaultThinkTime = 200 * time.Millisecond // soft budget per root move, checked between depths only
const DefaultStartDepth = 2

const MinDepth = 1
const MaxDepth = 64 // hard ceiling regardless of the configured max depth

type Config struct {
	ThinkTime       time.Duration
	StartDepth      int
	MaxDepth        int // 0 means no ceiling other than the time budget
	Workers         int // size of the root move worker pool
	DumpSearchStats bool
}

func DefaultConfig() Config {
	return Config{
		ThinkTime:  DefaultThinkTime,
		StartDepth: DefaultStartDepth,
		Workers:    runtime.NumCPU(),
	}
}

// Fill in zero values and clamp depths into range.
func (c Config) withDefaults() Config {
	if c.ThinkTime <= 0 {
		c.ThinkTime = DefaultThinkTime
	}
	if c.StartDepth < MinDepth {
		c.StartDepth = DefaultStartDepth
	}
	if c.StartDepth > MaxDepth {
		c.StartDepth = MaxDepth
	}
	if c.MaxDepth <= 0 || c.MaxDepth > MaxDepth {
		c.MaxDepth = MaxDepth
	}
	if c.MaxDepth < c.StartDepth {
		c.MaxDepth = c.StartDepth
	}
	if c.Workers < 1 {
		c.Workers = runtime.NumCPU()
	}
	return c
}
