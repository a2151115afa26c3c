// Package service contains the application services that orchestrate domain
// logic, catalogs, background interpretation, and persistence. Services
// depend on interfaces for their collaborators so implementations can be
// swapped at composition time.
package service
