package features

import (
	"sort"
	"sync"

	"github.com/codefionn/yardcalc/internal/calc"
)

// Flag names accepted by IsEnabled, Enable and Disable
const (
	LegacyNumerals     = "legacy_numerals"
	LegacyUnary        = "legacy_unary"
	RightAssocExponent = "right_assoc_exponent"
)

// FeatureFlags manages the evaluation compatibility switches.
// This structure is NOT persisted to disk - it's built from config and CLI flags.
// Every switch defaults to false (strict behavior).
type FeatureFlags struct {
	mu sync.RWMutex

	// Drop unparsable numerals silently instead of failing
	LegacyNumerals bool
	// Drop a unary minus before a non-literal instead of rewriting or failing
	LegacyUnary bool
	// Group ^ right-to-left
	RightAssocExponent bool
}

// NewFeatureFlags creates a new FeatureFlags instance with default values (all disabled)
func NewFeatureFlags() *FeatureFlags {
	return &FeatureFlags{}
}

// Names returns every known flag name, sorted
func Names() []string {
	names := []string{LegacyNumerals, LegacyUnary, RightAssocExponent}
	sort.Strings(names)
	return names
}

// IsEnabled checks if a flag is enabled. Unknown flags are disabled.
func (f *FeatureFlags) IsEnabled(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	switch name {
	case LegacyNumerals:
		return f.LegacyNumerals
	case LegacyUnary:
		return f.LegacyUnary
	case RightAssocExponent:
		return f.RightAssocExponent
	default:
		return false
	}
}

// Enable enables a flag and reports whether the name was known
func (f *FeatureFlags) Enable(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set(name, true)
}

// Disable disables a flag and reports whether the name was known
func (f *FeatureFlags) Disable(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set(name, false)
}

// Set enables or disables a flag and reports whether the name was known
func (f *FeatureFlags) Set(name string, enabled bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.set(name, enabled)
}

// Snapshot returns the current switches as engine options
func (f *FeatureFlags) Snapshot() calc.Options {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return calc.Options{
		LegacyNumerals:     f.LegacyNumerals,
		LegacyUnary:        f.LegacyUnary,
		RightAssocExponent: f.RightAssocExponent,
	}
}

// Engine builds an engine from the current switches
func (f *FeatureFlags) Engine() *calc.Engine {
	return calc.New(f.Snapshot())
}

// set sets the flag (must be called with lock held)
func (f *FeatureFlags) set(name string, enabled bool) bool {
	switch name {
	case LegacyNumerals:
		f.LegacyNumerals = enabled
	case LegacyUnary:
		f.LegacyUnary = enabled
	case RightAssocExponent:
		f.RightAssocExponent = enabled
	default:
		return false
	}
	return true
}
