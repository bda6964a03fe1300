// Package cache provides the read-through cache gateway used by the
// overdue listing: canonical key composition from query parameters,
// best-effort get/set with TTLs, glob-pattern invalidation, and the
// hook that ties invalidation to task change events. Store failures
// never reach callers; the cache is an optimization, not a dependency.
package cache
