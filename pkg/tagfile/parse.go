// Package tagfile applies tags listed in a CSV file.
//
// The file's header is Resource,Name,Tag:<key1>,Tag:<key2>,... and each row
// names a resource by type and name followed by one value per tag key.
package tagfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	tagPrefix = "Tag:"

	// resource type and name precede the tag columns
	fixedColumns = 2
)

// Row is one resource of the tag file with the tags to apply
type Row struct {
	Line         int
	ResourceType string
	Name         string
	Tags         map[string]string
}

// Parse reads a tag file and returns its tag keys and rows
func Parse(r io.Reader) ([]string, []Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, errors.New("line 1: tag file is empty, expected header Resource,Name,Tag:<key>,...")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error reading tag file header: %w", err)
	}

	keys, err := tagKeys(header)
	if err != nil {
		return nil, nil, fmt.Errorf("line 1: %w", err)
	}

	var rows []Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading tag file: %w", err)
		}

		line, _ := reader.FieldPos(0)
		if len(record) < len(header) {
			return nil, nil, fmt.Errorf("line %d: expected %d columns, got %d", line, len(header), len(record))
		}

		row := Row{
			Line:         line,
			ResourceType: strings.TrimSpace(record[0]),
			Name:         strings.TrimSpace(record[1]),
			Tags:         make(map[string]string, len(keys)),
		}
		if row.Name == "" {
			return nil, nil, fmt.Errorf("line %d: resource name is empty", line)
		}
		for i, key := range keys {
			row.Tags[key] = record[i+fixedColumns]
		}
		rows = append(rows, row)
	}

	return keys, rows, nil
}

// tagKeys returns the header's tag keys with the Tag: prefix removed
func tagKeys(header []string) ([]string, error) {
	if len(header) <= fixedColumns {
		return nil, fmt.Errorf("header needs Resource, Name and at least one Tag:<key> column, got %d columns", len(header))
	}

	keys := make([]string, 0, len(header)-fixedColumns)
	for _, cell := range header[fixedColumns:] {
		key, ok := strings.CutPrefix(strings.TrimSpace(cell), tagPrefix)
		if !ok || key == "" {
			return nil, fmt.Errorf("header column %q is not of the form %s<key>", cell, tagPrefix)
		}
		keys = append(keys, key)
	}
	return keys, nil
}
