package sim

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible estimation run. Two runs with the
// same key, parameters and worker count produce identical results.
type SimulationKey int64

// NewSimulationKey creates a SimulationKey from a seed value.
func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemTrial is the stream used for stand-alone single trials.
	// It uses the master seed directly so `trial --seed N` matches rand.NewSource(N).
	SubsystemTrial = "trial"
)

// SubsystemWorker returns the subsystem name of Monte Carlo worker i.
func SubsystemWorker(i int) string {
	return fmt.Sprintf("worker_%d", i)
}

// PartitionedRNG hands out isolated, deterministically seeded generators per
// subsystem so that trials running on different workers never share a source.
//
// Seeds are derived as masterSeed XOR fnv1a64(subsystem), except for
// SubsystemTrial which uses the master seed.
//
// Not thread-safe: derive every generator from one goroutine, then hand each
// *rand.Rand to exactly one worker.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a SimulationKey.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the generator of the named subsystem, creating it on
// first use. Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemTrial {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// ForWorker is shorthand for ForSubsystem(SubsystemWorker(i)).
func (p *PartitionedRNG) ForWorker(i int) *rand.Rand {
	return p.ForSubsystem(SubsystemWorker(i))
}

// Key returns the SimulationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
