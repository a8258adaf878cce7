// Command phototag tags photos in a Lightroom catalog or a plain folder
// using a local Ollama vision model, writing keywords to the catalog and
// to XMP sidecar files.
package main
