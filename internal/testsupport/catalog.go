package testsupport

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// FixturePhoto describes one photo row to seed into a fixture catalog.
// AbsolutePath and PathFromRoot follow Lightroom's convention of trailing
// slashes; FileUUID, when set, also records a smart preview proxy entry.
type FixturePhoto struct {
	ID           int64
	AbsolutePath string
	PathFromRoot string
	BaseName     string
	Extension    string
	Format       string
	FileUUID     string
}

// Catalog builds a miniature Lightroom catalog holding just the tables the
// store touches. Fixture data goes in through the Add helpers; the catalog
// under test reads it back through its own queries.
type Catalog struct {
	t    testing.TB
	db   *sql.DB
	path string

	nextID      int64
	rootFolders map[string]int64
	folders     map[string]int64
}

// CatalogOption adjusts fixture catalog construction.
type CatalogOption func(*catalogSettings)

type catalogSettings struct {
	previewTables bool
}

// WithoutPreviewTables builds a catalog lacking any preview table, the
// shape recent Lightroom versions produce.
func WithoutPreviewTables() CatalogOption {
	return func(s *catalogSettings) {
		s.previewTables = false
	}
}

// NewCatalog creates a fixture catalog file under the test's temp dir.
func NewCatalog(t testing.TB, opts ...CatalogOption) *Catalog {
	t.Helper()

	settings := catalogSettings{previewTables: true}
	for _, opt := range opts {
		opt(&settings)
	}

	path := filepath.Join(t.TempDir(), "test.lrcat")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture catalog: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	c := &Catalog{
		t:           t,
		db:          db,
		path:        path,
		nextID:      1000,
		rootFolders: make(map[string]int64),
		folders:     make(map[string]int64),
	}

	statements := []string{
		`CREATE TABLE Adobe_images (
            id_local INTEGER PRIMARY KEY,
            rootFile INTEGER,
            fileFormat TEXT,
            idx_filename TEXT)`,
		`CREATE TABLE AgLibraryFile (
            id_local INTEGER PRIMARY KEY,
            id_global TEXT,
            folder INTEGER,
            baseName TEXT,
            extension TEXT,
            idx_filename TEXT)`,
		`CREATE TABLE AgLibraryFolder (
            id_local INTEGER PRIMARY KEY,
            rootFolder INTEGER,
            pathFromRoot TEXT)`,
		`CREATE TABLE AgLibraryRootFolder (
            id_local INTEGER PRIMARY KEY,
            absolutePath TEXT)`,
		`CREATE TABLE AgLibraryKeyword (
            id_local INTEGER PRIMARY KEY,
            id_global TEXT,
            name TEXT,
            lc_name TEXT,
            dateCreated TEXT,
            genealogy TEXT,
            parent INTEGER)`,
		`CREATE TABLE AgLibraryKeywordImage (
            id_local INTEGER PRIMARY KEY AUTOINCREMENT,
            image INTEGER,
            tag INTEGER)`,
		`CREATE TABLE AgDNGProxyInfo (
            id_local INTEGER PRIMARY KEY AUTOINCREMENT,
            fileUUID TEXT)`,
	}
	if settings.previewTables {
		statements = append(statements,
			`CREATE TABLE Adobe_previewCachePyramid (
                id_local INTEGER PRIMARY KEY AUTOINCREMENT,
                image INTEGER,
                data BLOB)`,
			`CREATE TABLE Adobe_previewCache (
                id_local INTEGER PRIMARY KEY AUTOINCREMENT,
                image INTEGER,
                data BLOB,
                dimension INTEGER)`,
		)
	}
	for _, stmt := range statements {
		c.exec(stmt)
	}
	return c
}

// Path returns the fixture catalog file path.
func (c *Catalog) Path() string {
	return c.path
}

// AddPhoto inserts a photo with its file and folder rows.
func (c *Catalog) AddPhoto(p FixturePhoto) {
	c.t.Helper()

	rootID, ok := c.rootFolders[p.AbsolutePath]
	if !ok {
		rootID = c.id()
		c.exec("INSERT INTO AgLibraryRootFolder (id_local, absolutePath) VALUES (?, ?)",
			rootID, p.AbsolutePath)
		c.rootFolders[p.AbsolutePath] = rootID
	}

	folderKey := p.AbsolutePath + "|" + p.PathFromRoot
	folderID, ok := c.folders[folderKey]
	if !ok {
		folderID = c.id()
		c.exec("INSERT INTO AgLibraryFolder (id_local, rootFolder, pathFromRoot) VALUES (?, ?, ?)",
			folderID, rootID, p.PathFromRoot)
		c.folders[folderKey] = folderID
	}

	fileID := c.id()
	fileName := p.BaseName + "." + p.Extension
	c.exec(`INSERT INTO AgLibraryFile (id_local, id_global, folder, baseName, extension, idx_filename)
            VALUES (?, ?, ?, ?, ?, ?)`,
		fileID, p.FileUUID, folderID, p.BaseName, p.Extension, fileName)
	c.exec("INSERT INTO Adobe_images (id_local, rootFile, fileFormat, idx_filename) VALUES (?, ?, ?, ?)",
		p.ID, fileID, p.Format, fileName)

	if p.FileUUID != "" {
		c.exec("INSERT INTO AgDNGProxyInfo (fileUUID) VALUES (?)", p.FileUUID)
	}
}

// AddPyramidBlob stores an embedded smart preview blob for a photo.
func (c *Catalog) AddPyramidBlob(photoID int64, data []byte) {
	c.t.Helper()
	c.exec("INSERT INTO Adobe_previewCachePyramid (image, data) VALUES (?, ?)", photoID, data)
}

// AddStandardPreview stores an embedded standard preview rendition.
func (c *Catalog) AddStandardPreview(photoID int64, dimension int, data []byte) {
	c.t.Helper()
	c.exec("INSERT INTO Adobe_previewCache (image, data, dimension) VALUES (?, ?, ?)",
		photoID, data, dimension)
}

// AddKeyword attaches an existing-style keyword to a photo.
func (c *Catalog) AddKeyword(photoID int64, name string) {
	c.t.Helper()

	var keywordID int64
	err := c.db.QueryRow("SELECT id_local FROM AgLibraryKeyword WHERE lc_name = ?",
		strings.ToLower(name)).Scan(&keywordID)
	if err != nil {
		keywordID = c.id()
		c.exec(`INSERT INTO AgLibraryKeyword (id_local, id_global, name, lc_name, dateCreated, genealogy)
                VALUES (?, ?, ?, ?, datetime('now'), ?)`,
			keywordID, "FIXTURE-"+name, name, strings.ToLower(name), "/"+name)
	}
	c.exec("INSERT INTO AgLibraryKeywordImage (image, tag) VALUES (?, ?)", photoID, keywordID)
}

func (c *Catalog) id() int64 {
	c.nextID++
	return c.nextID
}

func (c *Catalog) exec(stmt string, args ...any) {
	c.t.Helper()
	if _, err := c.db.Exec(stmt, args...); err != nil {
		c.t.Fatalf("fixture catalog exec %q: %v", stmt, err)
	}
}
