/*
Package store provides the Graph Store: the single owner of a layer tree and
of the editor state that refers to it (selection, collapsed inspector
sections, collapsed sidebar groups).

Every mutation enters through a Store method, runs to completion under the
store mutex and is then reported to the registered hooks. Projections
(Flatten, Inspect) take the same mutex, so they always observe a consistent
snapshot. A rejected mutation leaves the store exactly as it was.
*/
package store
