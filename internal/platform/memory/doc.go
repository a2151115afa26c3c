// Package memory provides in-process implementations of the store
// interfaces, selected by configuration for development and tests in place
// of postgres.
package memory
