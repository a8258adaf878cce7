// Package imaging decodes preview blobs and photo files into image.Image
// values. JPEG, PNG, GIF, and TIFF codecs are registered; anything else
// (including raw camera formats) is reported as undecodable rather than
// absent, so callers can fall through to the next preview strategy.
package imaging
