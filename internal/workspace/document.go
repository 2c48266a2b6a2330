package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/papapumpkin/manpower/internal/alloc"
	"github.com/papapumpkin/manpower/internal/plan"
	"github.com/papapumpkin/manpower/internal/store"
	"github.com/pelletier/go-toml/v2"
)

// Sentinel errors for document decoding and import.
var (
	// ErrMalformedDocument indicates a document that does not decode or
	// lacks one of the teams, projects, or timePoints collections.
	ErrMalformedDocument = errors.New("malformed plan document")
	// ErrEmptyImport indicates an import in which no entity survived
	// validation.
	ErrEmptyImport = errors.New("no valid entities to import")
	// ErrUnknownFormat indicates a file extension other than .json or .toml.
	ErrUnknownFormat = errors.New("unknown document format")
)

// Format is a document encoding.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// FormatFor picks a format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("workspace: %w: %q", ErrUnknownFormat, path)
}

// Metadata describes a plan file.
type Metadata struct {
	Title        string  `json:"title" toml:"title"`
	Version      string  `json:"version" toml:"version"`
	TotalPersons float64 `json:"totalPersons" toml:"total_persons"`
	LastUpdated  string  `json:"lastUpdated" toml:"last_updated"`
}

// Document is the persisted shape of a whole plan.
type Document struct {
	Metadata    Metadata         `json:"metadata" toml:"metadata"`
	Teams       []plan.Team      `json:"teams" toml:"teams"`
	Projects    []plan.Project   `json:"projects" toml:"projects"`
	TimePoints  []plan.TimePoint `json:"timePoints" toml:"time_points"`
	Allocations alloc.Nested     `json:"allocations" toml:"allocations"`
}

// Snapshot converts the document to a store snapshot.
func (d Document) Snapshot() store.Snapshot {
	return store.Snapshot{
		Teams:       d.Teams,
		Projects:    d.Projects,
		TimePoints:  d.TimePoints,
		Allocations: d.Allocations,
	}
}

// FromSnapshot builds a document from a store snapshot and metadata.
func FromSnapshot(s store.Snapshot, meta Metadata) Document {
	return Document{
		Metadata:    meta,
		Teams:       s.Teams,
		Projects:    s.Projects,
		TimePoints:  s.TimePoints,
		Allocations: s.Allocations,
	}
}

// wireDocument distinguishes absent collections from empty ones.
type wireDocument struct {
	Metadata    Metadata          `json:"metadata" toml:"metadata"`
	Teams       *[]plan.Team      `json:"teams" toml:"teams"`
	Projects    *[]plan.Project   `json:"projects" toml:"projects"`
	TimePoints  *[]plan.TimePoint `json:"timePoints" toml:"time_points"`
	Allocations alloc.Nested      `json:"allocations" toml:"allocations"`
}

// Decode parses a plan document. The teams, projects, and timePoints
// collections must be present; allocations may be omitted.
func Decode(data []byte, f Format) (Document, error) {
	var w wireDocument
	var err error
	switch f {
	case FormatJSON:
		err = json.Unmarshal(data, &w)
	case FormatTOML:
		err = toml.Unmarshal(data, &w)
	default:
		return Document{}, fmt.Errorf("workspace: %w: %q", ErrUnknownFormat, f)
	}
	if err != nil {
		return Document{}, fmt.Errorf("workspace: %w: %v", ErrMalformedDocument, err)
	}
	if w.Teams == nil || w.Projects == nil || w.TimePoints == nil {
		return Document{}, fmt.Errorf("workspace: %w: teams, projects, and timePoints are required", ErrMalformedDocument)
	}
	doc := Document{
		Metadata:    w.Metadata,
		Teams:       *w.Teams,
		Projects:    *w.Projects,
		TimePoints:  *w.TimePoints,
		Allocations: w.Allocations,
	}
	if doc.Allocations == nil {
		doc.Allocations = alloc.Nested{}
	}
	return doc, nil
}

// Encode renders a plan document. JSON output is indented.
func Encode(doc Document, f Format) ([]byte, error) {
	if doc.Teams == nil {
		doc.Teams = []plan.Team{}
	}
	if doc.Projects == nil {
		doc.Projects = []plan.Project{}
	}
	if doc.TimePoints == nil {
		doc.TimePoints = []plan.TimePoint{}
	}
	if doc.Allocations == nil {
		doc.Allocations = alloc.Nested{}
	}
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("workspace: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatTOML:
		data, err := toml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("workspace: encode toml: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("workspace: %w: %q", ErrUnknownFormat, f)
}

// ReadDocument loads a plan document, choosing the format by extension.
func ReadDocument(path string) (Document, error) {
	f, err := FormatFor(path)
	if err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("workspace: read %s: %w", path, err)
	}
	doc, err := Decode(data, f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// WriteDocument saves a plan document atomically (temp file + rename),
// choosing the format by extension.
func WriteDocument(path string, doc Document) error {
	f, err := FormatFor(path)
	if err != nil {
		return err
	}
	data, err := Encode(doc, f)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("workspace: mkdir %s: %w", dir, err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("workspace: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("workspace: rename %s: %w", path, err)
	}
	return nil
}
