/*
Package dsl provides a fluent builder for layer trees.

It is the programmatic counterpart of a YAML document: useful in tests,
examples and anywhere a tree is generated rather than loaded.

Example usage:

	b := dsl.New("welcome")

	b.Add("card", layers.Group).Title("Card")

	b.Add("headline", layers.Text).
		Under("card").
		Set("text", domain.StringValue("Hello")).
		Set("fontSize", domain.NumberValue(48))

	b.Add("dark", layers.Toggle)
	b.Connect("dark", "isOn", "headline", "visible")

	tree, err := b.Build()
*/
package dsl
