// Package schedule implements the pure scheduling core of the study planner:
// day-of-week convention translation, date-time parsing, per-date availability
// resolution, load-context selection, and recurrence expansion.
//
// Everything in this package is side-effect free and operates on immutable
// snapshots supplied by the caller, so concurrent use requires no locking.
package schedule
