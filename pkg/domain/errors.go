package domain

import "errors"

// ErrTypeMismatch is returned when a value's variant is not accepted by a port.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrIncompatibleDirection is returned when connecting two inputs or two outputs.
var ErrIncompatibleDirection = errors.New("incompatible port direction")

// ErrPortBlocked is returned when connecting or editing a structurally disabled port.
var ErrPortBlocked = errors.New("port blocked")

// ErrPortDriven is returned when editing an input whose value comes from an upstream output.
var ErrPortDriven = errors.New("input driven by a connection")

// ErrCycleDetected is returned when a reparent would make a node its own ancestor.
var ErrCycleDetected = errors.New("cycle detected")

// ErrDuplicateID is returned when inserting a node whose id already exists.
var ErrDuplicateID = errors.New("duplicate node id")

// ErrEmptyID is returned when inserting a node without an id.
var ErrEmptyID = errors.New("empty node id")

// ErrNodeNotFound is returned when a node id cannot be resolved in the tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrPortNotFound is returned when a port key does not exist on a node.
var ErrPortNotFound = errors.New("port not found")

// ErrDocumentNotFound is returned when a document ID cannot be found in the store.
var ErrDocumentNotFound = errors.New("document not found")
