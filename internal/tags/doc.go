// Package tags holds the shared tag hygiene rules: Unicode normalization,
// order-preserving case-insensitive deduplication, the generated-tag suffix,
// and parsing of comma-separated model output.
//
// Both tag stores (catalog and sidecar) merge through Fold so "Paris" and
// "paris" are one tag everywhere.
package tags
