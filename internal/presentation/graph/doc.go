// Package graph renders a layer tree as a Mermaid flowchart.
package graph
