// Package tagger defines the interface to vision models that turn a photo
// rendition into tags. The batch coordinator depends only on the Generator
// interface; the ollama subpackage provides the real implementation.
package tagger
