package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/ifcqto/pkg/takeoff"
)

// WriteJSON encodes takeoff records as an indented JSON array. A nil slice is
// written as [].
func WriteJSON(w io.Writer, elements []takeoff.Element) error {
	if elements == nil {
		elements = []takeoff.Element{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(elements); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes takeoff records to a JSON file at path.
func ExportJSON(path string, elements []takeoff.Element) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, elements); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportXLSX writes a takeoff workbook to path.
func ExportXLSX(path string, sheet XLSXSheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteXLSX(f, sheet); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
