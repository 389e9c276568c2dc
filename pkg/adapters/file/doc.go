// Package file provides a ports.DocumentStore that keeps one YAML file per
// document in a directory.
package file
