// Package orchestration turns a set of (sequence, count) requests into
// rendered tables. It plans the jobs, builds them concurrently with one
// generator per job, and writes the results in request order. Presentation is
// decoupled through the ProgressReporter interface.
package orchestration
