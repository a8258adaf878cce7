// Package ollama implements tagger.Generator against a local Ollama server
// running a vision model. Images are downscaled and JPEG-encoded before
// being sent base64-embedded in /api/generate requests; transient failures
// retry with exponential backoff.
package ollama
