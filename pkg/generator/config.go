package generator

import (
	"errors"
	"fmt"
	"strings"
)

// Defaults. Observed generator variants disagree slightly on these, so all of them are configurable.
const (
	DefaultWidth         = 150
	DefaultMaxRetries    = 64
	DefaultJumpThreshold = 6
	DefaultSpawnZone     = 15
)

var (
	ErrInvalidWidth   = errors.New("level width must be at least 2")
	ErrHeightMismatch = errors.New("grid height does not match corpus height")
	ErrNoFillerSlice  = errors.New("corpus has no slice usable mid-level")
	ErrUnknownPolicy  = errors.New("unknown policy")
	ErrInvalidConfig  = errors.New("invalid generator config")
)

// Termination decides when the walk stops.
type Termination uint8

const (
	// TerminateForced places a random end slice at the last column.
	TerminateForced Termination = iota
	// TerminateOrganic stops at the first sampled end slice, or forces one at the last column.
	TerminateOrganic
)

func (t Termination) String() string {
	if t == TerminateOrganic {
		return "organic"
	}
	return "forced"
}

// Policy is a named generation strategy. All policies share the same sampler and repair code.
type Policy struct {
	Name        string
	Termination Termination
	HeightGuard bool
	Repair      bool
}

var (
	PolicyStrict  = Policy{Name: "strict", Termination: TerminateForced, Repair: true}
	PolicyOrganic = Policy{Name: "organic", Termination: TerminateOrganic, Repair: true}
	PolicyGuarded = Policy{Name: "guarded", Termination: TerminateForced, HeightGuard: true, Repair: true}
	PolicyRaw     = Policy{Name: "raw", Termination: TerminateForced}
)

var policies = map[string]Policy{
	PolicyStrict.Name:  PolicyStrict,
	PolicyOrganic.Name: PolicyOrganic,
	PolicyGuarded.Name: PolicyGuarded,
	PolicyRaw.Name:     PolicyRaw,
}

// ParsePolicy looks a policy up by name. An empty name selects PolicyStrict.
func ParsePolicy(name string) (Policy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return PolicyStrict, nil
	}
	if p, ok := policies[name]; ok {
		return p, nil
	}
	return Policy{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// PolicyNames lists the registered policies in a stable order.
func PolicyNames() []string {
	return []string{PolicyStrict.Name, PolicyOrganic.Name, PolicyGuarded.Name, PolicyRaw.Name}
}

// HelperOffset positions a jump-assist tile relative to the column where the ground rises:
// Back columns to the left, Down rows below the new ground row.
type HelperOffset struct {
	Back int
	Down int
}

var (
	DefaultHelper     = HelperOffset{Back: 1, Down: 4}
	DefaultPipeHelper = HelperOffset{Back: 2, Down: 3}
)

// Config drives a Generator.
type Config struct {
	Width         int
	Policy        Policy
	MaxRetries    int
	JumpThreshold int
	SpawnZone     int
	Helper        HelperOffset
	PipeHelper    HelperOffset
}

func DefaultConfig() Config {
	return Config{
		Width:         DefaultWidth,
		Policy:        PolicyStrict,
		MaxRetries:    DefaultMaxRetries,
		JumpThreshold: DefaultJumpThreshold,
		SpawnZone:     DefaultSpawnZone,
		Helper:        DefaultHelper,
		PipeHelper:    DefaultPipeHelper,
	}
}

func (c Config) Validate() error {
	if c.Width < 2 {
		return fmt.Errorf("%w: width %d", ErrInvalidWidth, c.Width)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("%w: max retries %d", ErrInvalidConfig, c.MaxRetries)
	}
	if c.JumpThreshold < 0 {
		return fmt.Errorf("%w: jump threshold %d", ErrInvalidConfig, c.JumpThreshold)
	}
	if c.SpawnZone < 0 {
		return fmt.Errorf("%w: spawn zone %d", ErrInvalidConfig, c.SpawnZone)
	}
	if c.Helper.Back < 0 || c.PipeHelper.Back < 0 {
		return fmt.Errorf("%w: helper offsets must look backwards", ErrInvalidConfig)
	}
	if _, ok := policies[c.Policy.Name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPolicy, c.Policy.Name)
	}
	return nil
}
