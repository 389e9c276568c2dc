/*
Package ports defines the driven ports (interfaces) of layergraph.

The graph core is pure and in-memory; everything that touches a backend goes
through these interfaces so the CLI and the HTTP server can swap storage.

# Key Interfaces

  - DocumentStore: persists and loads documents (memory, file, Redis).
*/
package ports
