package ibtree

import "fmt"

const (
	// DefaultOrder is the branching factor used if Config.Order is 0.
	DefaultOrder = 16
	// MinOrder is the smallest order a tree can balance with.
	MinOrder = 2
)

// Config configures an interval B+-tree.
type Config struct {
	// Order is the maximum number of entries of a node. Every node but the
	// root holds at least Order/2 entries.
	Order int
	// Alpha controls temporal splitting. Alpha <= 0 disables it; values
	// towards 1 split more aggressively.
	Alpha float64
	// Policy picks the split point for temporal splits. Defaults to
	// LinearPolicy.
	Policy SplitPolicy
}

func (cfg Config) normalized() Config {
	if cfg.Order == 0 {
		cfg.Order = DefaultOrder
	}
	if cfg.Policy == nil {
		cfg.Policy = LinearPolicy{}
	}
	return cfg
}

func (cfg Config) validate() error {
	cfg = cfg.normalized()
	if cfg.Order < MinOrder {
		return fmt.Errorf("%w: order %d below minimum %d", ErrInvalidConfig, cfg.Order, MinOrder)
	}
	return nil
}

func (cfg Config) minEntries() int {
	return cfg.Order / 2
}
