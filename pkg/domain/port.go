package domain

import "fmt"

// PortKind is the direction of a port.
type PortKind string

const (
	PortInput  PortKind = "input"
	PortOutput PortKind = "output"
)

// PortKey is the stable name of a port within a node (e.g. "opacity").
type PortKey string

// PortAddress identifies a single port observer in a graph.
type PortAddress struct {
	NodeID string   `json:"node" yaml:"node" mapstructure:"node"`
	Kind   PortKind `json:"kind" yaml:"kind" mapstructure:"kind"`
	Key    PortKey  `json:"port" yaml:"port" mapstructure:"port"`
}

// Input is a shorthand for the address of an input port.
func Input(nodeID string, key PortKey) PortAddress {
	return PortAddress{NodeID: nodeID, Kind: PortInput, Key: key}
}

// Output is a shorthand for the address of an output port.
func Output(nodeID string, key PortKey) PortAddress {
	return PortAddress{NodeID: nodeID, Kind: PortOutput, Key: key}
}

func (a PortAddress) String() string {
	return fmt.Sprintf("%s.%s.%s", a.NodeID, a.Kind, a.Key)
}
