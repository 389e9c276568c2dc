package domain

import "time"

// MutationType defines the category of a store mutation.
type MutationType string

const (
	MutationInsertNode      MutationType = "insert_node"
	MutationRemoveNode      MutationType = "remove_node"
	MutationMoveNode        MutationType = "move_node"
	MutationSetPortValue    MutationType = "set_port_value"
	MutationSetPortBlocked  MutationType = "set_port_blocked"
	MutationConnectPorts    MutationType = "connect_ports"
	MutationDisconnectPort  MutationType = "disconnect_port"
	MutationToggleSection   MutationType = "toggle_section"
	MutationToggleGroup     MutationType = "toggle_group"
	MutationSetSelection    MutationType = "set_selection"
	MutationRestoreSnapshot MutationType = "restore_snapshot"
	MutationInspectorEdit   MutationType = "inspector_edit"
)

// MutationEvent describes a mutation after the store applied it.
type MutationEvent struct {
	Timestamp time.Time    `json:"timestamp"`
	Type      MutationType `json:"type"`
	NodeIDs   []string     `json:"node_ids,omitempty"`
	Port      *PortAddress `json:"port,omitempty"`
	Section   string       `json:"section,omitempty"`
}

// MutationRejection describes a mutation the store refused.
type MutationRejection struct {
	Type MutationType
	Err  error
}

// MutationHooks defines callbacks for store observability.
// Hooks run synchronously on the mutating goroutine, after the mutation completes.
type MutationHooks struct {
	OnMutation func(*MutationEvent)
	OnReject   func(*MutationRejection)
}
