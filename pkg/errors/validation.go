package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidateFilename validates an uploaded model filename.
// It must be a plain basename with a .json or .ifcjson extension.
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}
	if len(name) > 255 {
		return New(ErrCodeInvalidInput, "filename too long (max 255 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid control characters")
		}
	}
	if strings.ContainsAny(name, "/\\") || name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "filename cannot contain path separators")
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".ifcjson":
		return nil
	}
	return New(ErrCodeInvalidInput, "only .json and .ifcjson model documents are supported: %q", name)
}

// ifcClassRegex matches IFC entity class names such as IfcWallStandardCase.
var ifcClassRegex = regexp.MustCompile(`^(?i:ifc)[A-Za-z0-9]+$`)

// ValidateClassName validates an IFC class name used as a takeoff filter.
func ValidateClassName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "class name cannot be empty")
	}
	if !ifcClassRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid IFC class name: %q", name)
	}
	return nil
}

// ValidateProjectName validates a project name attached to a sent takeoff.
func ValidateProjectName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "project name cannot be empty")
	}
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "project name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "project name contains invalid control characters")
		}
	}
	return nil
}
