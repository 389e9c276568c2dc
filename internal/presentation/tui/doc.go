// Package tui holds the terminal presentation helpers: the banner and the
// glamour rendering of inspector panels.
package tui
