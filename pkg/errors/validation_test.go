package errors

import (
	"strings"
	"testing"
)

func TestValidateNodeID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "1", false},
		{"valid dashed", "1-1-2", false},
		{"valid unicode", "узел", false},
		{"valid with spaces", "row one", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 300), true},
		{"null byte", "foo\x00bar", true},
		{"control char", "foo\x01bar", true},
		{"newline", "foo\nbar", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNodeID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNodeID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidRecord {
				t.Errorf("GetCode() = %v, want %v", GetCode(err), ErrCodeInvalidRecord)
			}
		})
	}
}

func TestValidateFieldKey(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid id", "id", false},
		{"valid camel", "parentId", false},
		{"valid snake", "parent_id", false},

		{"empty", "", true},
		{"blank", "   ", true},
		{"inner space", "parent id", true},
		{"tab", "parent\tid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFieldKey(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFieldKey(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"relative", "data/tree.json", false},
		{"absolute", "/tmp/tree.yaml", false},
		{"dotted", "../tree.json", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 5000), true},
		{"null byte", "tree\x00.json", true},
		{"control char", "tree\x07.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
