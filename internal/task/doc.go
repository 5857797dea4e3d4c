// Package task implements the asynchronous analysis task engine: the
// in-memory registry of task records, the executor that drives each task
// through the pending → running → {completed, failed} lifecycle, and the
// query facade the HTTP layer polls.
//
// Submission is synchronous and fast; the analysis itself runs on a
// detached goroutine bounded by a concurrency semaphore, reporting
// progress back into the registry. Terminal states are final.
package task
