// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and repositories
// (defined in internal/store) to fulfill application features.
//
// Each service focuses on one domain area (projects, tasks, contributors,
// dashboard) and receives its dependencies through constructor injection:
// repository interfaces from store, the event emitter, and a logger. Task
// mutations additionally publish change events so downstream consumers
// (cache invalidation, logging) observe every write without the services
// knowing who listens.
//
// The service layer depends on domain entities and repository interfaces,
// never on specific infrastructure implementations.
package service
