package sidecar_test

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"phototag/internal/logging"
	"phototag/internal/sidecar"
)

func TestPathFor(t *testing.T) {
	cases := []struct {
		photo string
		want  string
	}{
		{"/photos/beach.jpg", "/photos/beach.xmp"},
		{"/photos/beach.CR2", "/photos/beach.xmp"},
		{"/photos/archive.2024/shot.dng", "/photos/archive.2024/shot.xmp"},
		{"/photos/noext", "/photos/noext.xmp"},
	}
	for _, tc := range cases {
		if got := sidecar.PathFor(tc.photo); got != tc.want {
			t.Errorf("PathFor(%q) = %q, want %q", tc.photo, got, tc.want)
		}
	}
}

func TestReadTagsMissingSidecar(t *testing.T) {
	store := sidecar.NewStore(logging.NewNop())
	got, err := store.ReadTags(filepath.Join(t.TempDir(), "photo.jpg"))
	if err != nil {
		t.Fatalf("ReadTags on missing sidecar: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no tags, got %v", got)
	}
}

func TestReadTagsMalformedSidecar(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(sidecar.PathFor(photo), []byte("<x:xmpmeta"), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	store := sidecar.NewStore(logging.NewNop())
	if _, err := store.ReadTags(photo); err == nil {
		t.Fatal("expected error for malformed sidecar")
	}
}

func TestWriteTagsMergeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	store := sidecar.NewStore(logging.NewNop())

	if err := store.WriteTags(photo, []string{"Sunset", "Beach"}); err != nil {
		t.Fatalf("first WriteTags: %v", err)
	}
	got, err := store.ReadTags(photo)
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Sunset", "Beach"}) {
		t.Fatalf("unexpected tags after first write: %v", got)
	}

	// Second write keeps existing order, skips case-insensitive duplicates,
	// and appends only the genuinely new tag.
	if err := store.WriteTags(photo, []string{"beach", "Ocean"}); err != nil {
		t.Fatalf("second WriteTags: %v", err)
	}
	got, err = store.ReadTags(photo)
	if err != nil {
		t.Fatalf("ReadTags after merge: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Sunset", "Beach", "Ocean"}) {
		t.Fatalf("unexpected merged tags: %v", got)
	}
}

func TestWriteTagsPreservesUnrelatedContent(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")

	existing := `<?xml version="1.0" encoding="UTF-8"?>
<x:xmpmeta xmlns:x="adobe:ns:meta/">
  <rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">
    <rdf:Description rdf:about="" xmlns:xmp="http://ns.adobe.com/xap/1.0/" xmlns:dc="http://purl.org/dc/elements/1.1/">
      <xmp:CreatorTool>SomeEditor 3.1</xmp:CreatorTool>
      <xmp:Rating>4</xmp:Rating>
      <dc:subject>
        <rdf:Bag>
          <rdf:li>Holiday</rdf:li>
        </rdf:Bag>
      </dc:subject>
    </rdf:Description>
  </rdf:RDF>
</x:xmpmeta>`
	if err := os.WriteFile(sidecar.PathFor(photo), []byte(existing), 0o644); err != nil {
		t.Fatalf("write sidecar: %v", err)
	}

	store := sidecar.NewStore(logging.NewNop())
	if err := store.WriteTags(photo, []string{"Family"}); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}

	got, err := store.ReadTags(photo)
	if err != nil {
		t.Fatalf("ReadTags: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Holiday", "Family"}) {
		t.Fatalf("unexpected tags: %v", got)
	}

	data, err := os.ReadFile(sidecar.PathFor(photo))
	if err != nil {
		t.Fatalf("read sidecar: %v", err)
	}
	for _, fragment := range []string{"SomeEditor 3.1", "xmp:Rating", ">4<"} {
		if !strings.Contains(string(data), fragment) {
			t.Errorf("rewritten sidecar lost %q", fragment)
		}
	}
	if strings.Count(string(data), "<dc:subject") != 1 {
		t.Errorf("expected exactly one dc:subject element:\n%s", data)
	}
}

func TestWriteTagsLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	photo := filepath.Join(dir, "photo.jpg")
	store := sidecar.NewStore(logging.NewNop())

	if err := store.WriteTags(photo, []string{"One"}); err != nil {
		t.Fatalf("WriteTags: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "photo.xmp" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}
