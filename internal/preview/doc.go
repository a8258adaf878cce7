// Package preview resolves the best available rendition of a photo without
// touching the original file. Sources are tried in a fixed priority order:
// the embedded smart preview blob, the smart preview DNG inside the
// catalog's .lrdata directory, then the embedded standard preview. An
// undecodable candidate is skipped, not fatal; resolution continues down
// the list and only returns empty when every source is exhausted.
package preview
