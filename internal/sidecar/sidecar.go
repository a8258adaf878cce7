package sidecar

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"

	"phototag/internal/logging"
	"phototag/internal/tags"
)

// Extension is the sidecar file extension, replacing the photo's own.
const Extension = ".xmp"

const (
	nsMeta = "adobe:ns:meta/"
	nsRDF  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	nsDC   = "http://purl.org/dc/elements/1.1/"

	toolkitName = "phototag 1.0"
)

// Store reads and writes per-photo XMP sidecars.
type Store struct {
	logger *slog.Logger
}

// NewStore constructs a sidecar store.
func NewStore(logger *slog.Logger) *Store {
	return &Store{logger: logging.NewComponentLogger(logger, "sidecar")}
}

// PathFor returns the sidecar path for a photo: same directory, same base
// name, .xmp extension.
func PathFor(photoPath string) string {
	ext := filepath.Ext(photoPath)
	return photoPath[:len(photoPath)-len(ext)] + Extension
}

// Exists reports whether a sidecar is present for the photo.
func (s *Store) Exists(photoPath string) bool {
	_, err := os.Stat(PathFor(photoPath))
	return err == nil
}

// ReadTags returns the tags recorded in the photo's sidecar in document
// order. A missing sidecar yields an empty result and no error; a present
// but unparseable one is an error.
func (s *Store) ReadTags(photoPath string) ([]string, error) {
	sidecarPath := PathFor(photoPath)
	data, err := os.ReadFile(sidecarPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sidecar %s: %w", sidecarPath, err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse sidecar %s: %w", sidecarPath, err)
	}
	return collectTags(doc), nil
}

// WriteTags merges newTags into the photo's sidecar. Existing tags are kept
// in order; genuinely new ones are appended (case-insensitive comparison).
// When no sidecar exists a minimal document holding only the tag container
// is created. When one exists, only the dc:subject subtree is replaced.
func (s *Store) WriteTags(photoPath string, newTags []string) error {
	sidecarPath := PathFor(photoPath)

	existing, err := s.ReadTags(photoPath)
	if err != nil {
		return err
	}
	merged := tags.Merge(existing, newTags)

	var doc *etree.Document
	if data, readErr := os.ReadFile(sidecarPath); readErr == nil {
		doc = etree.NewDocument()
		if err := doc.ReadFromBytes(data); err != nil {
			return fmt.Errorf("parse sidecar %s: %w", sidecarPath, err)
		}
		if err := replaceSubject(doc, merged); err != nil {
			return fmt.Errorf("update sidecar %s: %w", sidecarPath, err)
		}
	} else if errors.Is(readErr, fs.ErrNotExist) {
		doc = newDocument(merged)
	} else {
		return fmt.Errorf("read sidecar %s: %w", sidecarPath, readErr)
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return fmt.Errorf("serialize sidecar %s: %w", sidecarPath, err)
	}
	if err := writeAtomic(sidecarPath, data); err != nil {
		return err
	}

	s.logger.Debug("sidecar written",
		logging.String(logging.FieldPhotoPath, photoPath),
		logging.Int(logging.FieldTagCount, len(merged)))
	return nil
}

// collectTags walks the document for dc:subject/rdf:Bag/rdf:li entries,
// matching on local names so uncommon namespace prefixes still parse.
func collectTags(doc *etree.Document) []string {
	var out []string
	for _, subject := range elementsByLocalName(doc.Root(), "subject") {
		for _, bag := range childrenByLocalName(subject, "Bag") {
			for _, li := range childrenByLocalName(bag, "li") {
				if text := strings.TrimSpace(li.Text()); text != "" {
					out = append(out, text)
				}
			}
		}
	}
	return out
}

// replaceSubject removes every dc:subject under the first rdf:Description and
// installs a fresh one holding the merged tag list.
func replaceSubject(doc *etree.Document, tagList []string) error {
	descriptions := elementsByLocalName(doc.Root(), "Description")
	if len(descriptions) == 0 {
		return errors.New("no rdf:Description element")
	}
	description := descriptions[0]

	for _, subject := range childrenByLocalName(description, "subject") {
		description.RemoveChild(subject)
	}
	appendSubject(description, tagList)
	return nil
}

func appendSubject(description *etree.Element, tagList []string) {
	subject := description.CreateElement("dc:subject")
	// Declare both namespaces locally so the subtree is valid regardless of
	// what the enclosing document declares.
	subject.CreateAttr("xmlns:dc", nsDC)
	subject.CreateAttr("xmlns:rdf", nsRDF)
	bag := subject.CreateElement("rdf:Bag")
	for _, tag := range tagList {
		bag.CreateElement("rdf:li").SetText(tag)
	}
}

func newDocument(tagList []string) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	meta := doc.CreateElement("x:xmpmeta")
	meta.CreateAttr("xmlns:x", nsMeta)
	meta.CreateAttr("x:xmptk", toolkitName)

	rdf := meta.CreateElement("rdf:RDF")
	rdf.CreateAttr("xmlns:rdf", nsRDF)

	description := rdf.CreateElement("rdf:Description")
	description.CreateAttr("rdf:about", "")

	appendSubject(description, tagList)
	return doc
}

func elementsByLocalName(root *etree.Element, local string) []*etree.Element {
	if root == nil {
		return nil
	}
	var out []*etree.Element
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		if el.Tag == local {
			out = append(out, el)
		}
		for _, child := range el.ChildElements() {
			walk(child)
		}
	}
	walk(root)
	return out
}

func childrenByLocalName(el *etree.Element, local string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == local {
			out = append(out, child)
		}
	}
	return out
}

func writeAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp sidecar: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp sidecar: %w", err)
	}
	return nil
}
