// Package job provides the background job core: a buffered queue, a
// worker-pool runner with crash recovery and stuck-job reset, a
// fixed-interval scheduler, and the overdue sweep job that recomputes
// every task's overdue flag and notifies affected contributors.
package job
