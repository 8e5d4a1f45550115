// Package types defines the entities, repository interfaces, configuration
// and standard errors shared by the cabplanner services and storage backends.
package types
