package esguard

import "fmt"

// CapPolicy bounds the size of a validated document. Depth is counted per
// union point; Depth overrides MaxDepth for the named union points.
type CapPolicy struct {
	MaxFanout         int            `yaml:"max_fanout" json:"max_fanout"`
	MaxDepth          int            `yaml:"max_depth" json:"max_depth"`
	MaxCollectionSize int            `yaml:"max_collection_size" json:"max_collection_size"`
	Depth             map[string]int `yaml:"depth,omitempty" json:"depth,omitempty"`
}

// DefaultCaps returns the engine-wide defaults: 1000 entries per mapping, three
// levels per union point, 1000 items per capped collection.
func DefaultCaps() CapPolicy {
	return CapPolicy{MaxFanout: 1000, MaxDepth: 3, MaxCollectionSize: 1000}
}

// DepthFor returns the depth limit for the union point named union.
func (c CapPolicy) DepthFor(union string) int {
	if d, ok := c.Depth[union]; ok && d > 0 {
		return d
	}
	return c.MaxDepth
}

// Validate rejects non-positive limits.
func (c CapPolicy) Validate() error {
	if c.MaxFanout <= 0 || c.MaxDepth <= 0 || c.MaxCollectionSize <= 0 {
		return fmt.Errorf("%w: fanout=%d depth=%d collection=%d", ErrInvalidCaps, c.MaxFanout, c.MaxDepth, c.MaxCollectionSize)
	}
	for name, d := range c.Depth {
		if d <= 0 {
			return fmt.Errorf("%w: depth[%s]=%d", ErrInvalidCaps, name, d)
		}
	}
	return nil
}

// Merge overlays the non-zero limits of o onto c.
func (c CapPolicy) Merge(o CapPolicy) CapPolicy {
	out := c
	if o.MaxFanout > 0 {
		out.MaxFanout = o.MaxFanout
	}
	if o.MaxDepth > 0 {
		out.MaxDepth = o.MaxDepth
	}
	if o.MaxCollectionSize > 0 {
		out.MaxCollectionSize = o.MaxCollectionSize
	}
	if len(c.Depth) > 0 || len(o.Depth) > 0 {
		out.Depth = make(map[string]int, len(c.Depth)+len(o.Depth))
		for k, v := range c.Depth {
			out.Depth[k] = v
		}
		for k, v := range o.Depth {
			out.Depth[k] = v
		}
	}
	return out
}
