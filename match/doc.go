// Package match resolves a one-to-one correspondence between the regions
// of two document renderings.
//
// A matching run moves through four phases: scoring every candidate pair,
// sorting candidates by fused score, greedily assigning pairs so that no
// region appears twice, and assembling the result. Scoring is the only
// parallel phase; pairs are independent, so the candidate set is sharded
// across workers and merged before the inherently sequential greedy
// assignment. Greedy assignment approximates maximum-weight bipartite
// matching; it is deterministic but not globally optimal.
package match
