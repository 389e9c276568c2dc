/*
Package layers is the static layer-type catalog.

Which input ports a layer supports is a property of its layer type, never of
an individual node: the catalog is a fixed lookup table keyed by
domain.LayerType. It also carries the value type and default value of every
port key, and the default canonical section enumeration used to order the
inspector.
*/
package layers
