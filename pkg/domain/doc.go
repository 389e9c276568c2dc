/*
Package domain contains the core vocabulary of the layer graph.

It defines the values carried by ports, the identity of ports and layers, the
inspector section enumeration type and the sentinel errors returned by every
mutation. This package is kept pure and free of I/O so that the graph, the
projections and the adapters can share it without import cycles.

# Key Entities

  - Value: a tagged variant (number, string, bool, color, point, size) stored in a port.
  - PortAddress: (node id, kind, key) identity of a single port observer.
  - LayerType: the tag that selects which ports a layer supports.
  - Section: a named, ordered group of input ports shown together in the inspector.
  - MutationEvent: what the store reports to hooks after a successful mutation.
*/
package domain
