// Package postgres provides PostgreSQL-backed implementations of the
// persistence interfaces defined in the store and job packages. All
// stores accept a database handle managed by the caller and map
// database failures onto the store package's sentinel errors.
package postgres
