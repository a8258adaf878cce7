package catalog

// Photo is one catalog image row with its resolved filesystem location.
// FullPath and Format may be empty when the catalog predates the modern
// folder tables and only the fallback listing succeeded.
type Photo struct {
	ID       int64
	FullPath string
	FileName string
	Format   string
}

// Schema records which preview tables this particular catalog carries.
// Empty fields mean the catalog has no such table, which is common: smart
// previews are opt-in and standard preview caches live outside the catalog
// in recent Lightroom versions.
type Schema struct {
	PyramidTable  string
	StandardTable string

	// StandardHasDimension controls whether standard preview lookups can
	// order by the dimension column to prefer the largest rendition.
	StandardHasDimension bool
}
