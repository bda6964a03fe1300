// Package events carries explicit task change notifications from the
// mutation paths to the components that react to them, replacing any
// implicit save/delete dispatch. The invalidation hook is the primary
// consumer.
package events
