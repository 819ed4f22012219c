// Package metrics aggregates trial results for craftload.
//
// The [Collector] is the engine's only shared mutable state: workers record
// completed trials into it, and the append plus counter increments form a
// single critical section, so the invariant successes+failures == recorded
// trials holds at every observation point.
//
// [Collector.Stats] is the statistics aggregator: a pure reduction over the
// finished result collection producing min/max/mean/median, sample standard
// deviation, and HDR-histogram percentiles for the connect, response, and
// total phases, plus the qualitative [Verdict] classification.
package metrics
