// Package source loads export sections from documents and databases.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat indicates a document whose shape is not a sections document.
var ErrUnsupportedFormat = errors.New("unsupported sections document")

// SectionError reports a problem with one section of a document or report.
type SectionError struct {
	Section string
	Err     error
}

func (e *SectionError) Error() string {
	return fmt.Sprintf("section %q: %v", e.Section, e.Err)
}

func (e *SectionError) Unwrap() error {
	return e.Err
}

// NewSectionError creates a new SectionError.
func NewSectionError(section string, err error) *SectionError {
	return &SectionError{Section: section, Err: err}
}

// LoadFile reads a sections document from path.
func LoadFile(path string) ([]models.Section, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(b))
}

// Decode reads a YAML or JSON sections document. Two shapes are accepted:
//
//	Sheet name: [ {field: value, ...}, ... ]
//
// and
//
//	sections:
//	  - name: Sheet name
//	    records: [ {field: value, ...}, ... ]
//
// Field order within each record is kept as written.
func Decode(r io.Reader) ([]models.Section, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping", ErrUnsupportedFormat)
	}

	if len(root.Content) == 2 && root.Content[0].Value == "sections" && isSectionList(root.Content[1]) {
		return decodeSectionList(root.Content[1])
	}

	sections := make([]models.Section, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		records, err := decodeRecords(root.Content[i+1])
		if err != nil {
			return nil, NewSectionError(name, err)
		}
		sections = append(sections, models.Section{Name: name, Records: records})
	}
	return sections, nil
}

// isSectionList reports whether every item of n is a mapping with a records key.
func isSectionList(n *yaml.Node) bool {
	if n.Kind != yaml.SequenceNode || len(n.Content) == 0 {
		return false
	}
	for _, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			return false
		}
		found := false
		for j := 0; j < len(item.Content); j += 2 {
			if item.Content[j].Value == "records" {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func decodeSectionList(seq *yaml.Node) ([]models.Section, error) {
	sections := make([]models.Section, 0, len(seq.Content))
	for i, item := range seq.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: sections[%d] must be a mapping", ErrUnsupportedFormat, i)
		}
		var sec models.Section
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, val := item.Content[j].Value, item.Content[j+1]
			switch key {
			case "name":
				sec.Name = val.Value
			case "records":
				records, err := decodeRecords(val)
				if err != nil {
					return nil, NewSectionError(sec.Name, err)
				}
				sec.Records = records
			}
		}
		sections = append(sections, sec)
	}
	return sections, nil
}

func decodeRecords(n *yaml.Node) ([]models.Record, error) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("%w: records must be a list", ErrUnsupportedFormat)
	}
	records := make([]models.Record, 0, len(n.Content))
	for i, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: record %d must be a mapping", ErrUnsupportedFormat, i)
		}
		rec := make(models.Record, 0, len(item.Content)/2)
		for j := 0; j+1 < len(item.Content); j += 2 {
			v, err := scalarValue(item.Content[j+1])
			if err != nil {
				return nil, fmt.Errorf("record %d field %q: %w", i, item.Content[j].Value, err)
			}
			rec = append(rec, models.Field{Key: item.Content[j].Value, Value: v})
		}
		records = append(records, rec)
	}
	return records, nil
}

// scalarValue converts a field node to a Go value. Nested lists and mappings
// are kept as their YAML text so they still land in a single cell.
func scalarValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.ScalarNode {
		out, err := yaml.Marshal(n)
		if err != nil {
			return nil, err
		}
		return string(bytes.TrimSpace(out)), nil
	}
	switch n.Tag {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return b, nil
	case "!!int":
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return i, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return n.Value, nil
		}
		return f, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return n.Value, nil
		}
		return t, nil
	}
	return n.Value, nil
}
