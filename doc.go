/*
Package layergraph is an editor core for layered visual documents: a tree of
typed layers whose properties are observable ports, with the two views an
editor UI needs.

# Concept

Every layer is a node with typed input and output ports. Ports can be
connected (an output drives any number of inputs), blocked, observed and
edited. Layers form a hierarchy that the sidebar shows as a flattened,
collapsible list, while the inspector shows the properties of the focused
layers grouped in sections. With several layers focused, the inspector only
offers the properties they share and an edit applies to all of them at once.

A single Graph Store owns each document and serialises every mutation, so
the projections never observe a half-applied change.

# Usage

	ed := layergraph.New(layergraph.WithDocumentStore(file.New("./docs")))

	doc, err := ed.Open(ctx, "onboarding")
	if err != nil {
		log.Fatal(err)
	}

	s := doc.Store
	_ = s.SetSelection("title", "subtitle")
	_ = s.SetInspectorValue("opacity", domain.NumberValue(0.5))

	for _, row := range s.Flatten() {
		fmt.Println(row.Depth, row.NodeID)
	}

	_ = ed.Save(ctx, "onboarding")

# Packages

  - pkg/graph: ports, nodes and the layer tree.
  - pkg/projection: sidebar flattening and the inspector projection.
  - pkg/store: the Graph Store.
  - pkg/document: YAML/JSON documents.
  - pkg/adapters: document stores (memory, file, Redis).
  - pkg/persistence/middleware: validation, canonical form and logging around a store.
*/
package layergraph
