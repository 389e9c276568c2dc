// Package http exposes an Editor as a JSON API routed with chi: sidebar and
// inspector projections, every store mutation, document persistence and a
// Server-Sent Events stream of mutations.
package http
