// Package timing implements the timing dependence of spike-timing-dependent
// plasticity in 16-bit fixed point.
//
// Every synapse carries a presynaptic trace x and every neuron a
// postsynaptic trace, both decaying exponentially between spikes through the
// lookup tables of package lut. When a spike arrives the caller first
// refreshes the trace of the spiking side (AddPreSpike, AddPostSpike) and then
// folds the opposite side's trace, sampled at the spike time, into the
// synapse's update state (ApplyPreSpike, ApplyPostSpike).
//
// Two rules are provided. The pair rule keeps a single postsynaptic trace y.
// The triplet rule keeps two, y1 for depression and y2 which scales
// potentiation so that bursts of postsynaptic spikes potentiate more than
// isolated pairs.
//
// All operations are pure functions of their arguments and the immutable
// tables. The caller owns the spike history and must deliver spikes for each
// synapse and neuron in time order.
package timing
