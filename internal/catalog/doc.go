// Package catalog provides read and keyword-write access to a Lightroom
// Classic catalog, which is a SQLite database with a .lrcat extension.
//
// Reads cover the photo list, per-photo paths, existing keywords, embedded
// preview blobs, and the smart preview file UUID. The only write path is
// keyword insertion: find-or-create rows in AgLibraryKeyword plus the
// photo association in AgLibraryKeywordImage, inside one transaction. No
// other catalog table is ever modified.
//
// Preview storage varies across Lightroom versions, so the store probes the
// schema once at open time and records which candidate tables actually hold
// blob data.
package catalog
