package errors

import (
	"strings"
	"testing"
)

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"house.json", false},
		{"House.IFCJSON", false},
		{"", true},
		{"house.ifc", true},
		{"../house.json", true},
		{"dir/house.json", true},
		{"dir\\house.json", true},
		{"bad\x00.json", true},
		{strings.Repeat("a", 300) + ".json", true},
	}

	for _, tt := range tests {
		err := ValidateFilename(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFilename(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateFilename(%q) code = %v, want %v", tt.name, GetCode(err), ErrCodeInvalidInput)
		}
	}
}

func TestValidateClassName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"IfcWall", false},
		{"IfcWallStandardCase", false},
		{"IFCSLAB", false},
		{"", true},
		{"Wall", true},
		{"IfcWall;DROP", true},
		{"Ifc", true},
	}

	for _, tt := range tests {
		if err := ValidateClassName(tt.name); (err != nil) != tt.wantErr {
			t.Errorf("ValidateClassName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestValidateProjectName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"Residential Tower A", false},
		{"", true},
		{"   ", true},
		{"line\nbreak", true},
		{strings.Repeat("p", 257), true},
	}

	for _, tt := range tests {
		if err := ValidateProjectName(tt.name); (err != nil) != tt.wantErr {
			t.Errorf("ValidateProjectName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeInvalidInput,
		ErrCodeInvalidModel,
		ErrCodeModelNotFound,
		ErrCodeStoreUnavailable,
		ErrCodePublishFailed,
		ErrCodeTimeout,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
