// Package document defines the serialisable form of a layer graph and
// converts it to and from a live graph.Tree.
//
// A document is a nested list of layers (each with its type, its non-default
// input and output values, its blocked ports and its children), a list of
// connections from an output port to an input port, and the editor state
// worth keeping across sessions: selection, collapsed sidebar groups,
// collapsed inspector sections.
//
//	id: onboarding
//	layers:
//	  - id: card
//	    type: group
//	    children:
//	      - id: title
//	        type: text
//	        inputs:
//	          text: Welcome
//	          position: {x: 10, y: 20}
//	  - id: toggle
//	    type: toggle
//	    outputs:
//	      isOn: true
//	connections:
//	  - from: {node: toggle, port: isOn}
//	    to: {node: title, port: visible}
//
// Documents are read from YAML (default) or JSON. Build validates the whole
// document and reports every problem at once as an *AggregateError.
package document
