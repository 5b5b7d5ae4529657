// Package migrations defines the schema history. Each file registers its
// migrations from init(), and both entrypoints blank-import this package so
// the registry is populated before the runner starts.
package migrations
