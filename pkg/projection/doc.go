/*
Package projection computes the read-only views the presentation layer draws:
the sidebar's flattened layer list and the inspector panel.

Both are pure functions of the tree and the caller-supplied state (collapsed
groups, selection, collapsed sections). They are recomputed on demand and
never write back into the tree, except through MergedObserver.SetValue which
is an explicit edit.
*/
package projection
