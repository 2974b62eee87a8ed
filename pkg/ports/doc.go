/*
Package ports defines the strategy interfaces the reduction core depends on.

The noncontextual-set search and the mixed discrete/continuous optimizer are
black boxes from the core's perspective: the core hands them a description of
the problem and consumes their output without knowing how the search was
performed. Keeping them behind interfaces makes the core logic testable without
any concrete heuristic attached, and lets callers swap in external engines.

RunStore persists completed ground-state-search runs (search space plus every
evaluated sample) so a search can be audited or replayed later.
*/
package ports
