// Package memory provides an in-process ports.DocumentStore, used by tests
// and by the server when no directory or Redis address is configured.
package memory
