// Package sidecar reads and writes XMP sidecar files carrying portable tag
// metadata next to each photo.
//
// A sidecar shares the photo's base name with a .xmp extension (photo.jpg ->
// photo.xmp, never photo.jpg.xmp). Tags live in the dc:subject/rdf:Bag
// structure every major photo tool understands. Writes replace only the tag
// subtree, preserve unrelated XMP content, and are atomic: the document is
// fully built in memory and swapped in via temp file + rename, so a failed
// write never leaves a truncated sidecar behind.
package sidecar
