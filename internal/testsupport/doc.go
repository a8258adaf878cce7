// Package testsupport provides shared helpers for building test fixtures:
// temp-dir configs, miniature Lightroom catalogs, and image files.
package testsupport
