// Package redis provides a ports.DocumentStore backed by Redis, for servers
// that share documents across replicas.
package redis
