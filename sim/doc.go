// Package sim provides the per-trial discrete-event simulation of a three-node
// service (A, B, C) exposed to randomly timed bad releases.
//
// # Reading Guide
//
// Start with these files to understand one trial:
//   - params.go: model parameters and the downtime bounds they imply
//   - schedule.go: random release schedules with a spacing constraint and a bad subset
//   - simulator.go: the minimum-of-next-events loop and the cache invalidation rule
//   - availability.go: the system-level availability predicate
//   - downtime.go: the bounded store of downtime intervals
//
// # Model
//
// Every node deploys ReleaseCount times a year; BadReleaseCount of those
// releases take the node down for OutageMinutes. B and C keep serving from a
// cache while down, unless the cache is cold. Caches go cold only when A has
// a bad release, and take BCacheWarmup / CCacheWarmup minutes to warm again.
//
// Sub-packages:
//   - sim/montecarlo/: parallel repetition of trials and exact statistics
//   - sim/trace/: per-trial trace records
package sim
