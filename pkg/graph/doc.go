/*
Package graph implements the layer hierarchy: nodes, their observable ports
and the forest that owns them.

# Ownership

A Tree exclusively owns its Nodes and a Node exclusively owns its
PortObservers. Structural changes (insert, remove, move) go through the Tree
so that the parent/child invariants hold after every successful call:

  - a node's child list holds exactly the nodes whose parent points back to it;
  - no node is its own ancestor;
  - a rejected call leaves the tree exactly as it was.

Ports are wired with Connect and unwired with Disconnect. Edges are stored on
both ends: an input knows its single upstream output, an output knows its
downstream inputs.

Nothing in this package is safe for concurrent use. The store package
serialises access.
*/
package graph
