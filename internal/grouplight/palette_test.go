package grouplight

import (
	"errors"
	"strings"
	"testing"
)

func TestValidatePalette(t *testing.T) {
	tests := []struct {
		name      string
		colorList []any
		wantErr   bool
	}{
		{
			name:      "colour names",
			colorList: []any{"red", "warm-white", "magenta"},
			wantErr:   false,
		},
		{
			name:      "component lists",
			colorList: []any{[]any{330, 70}, []any{10, 20, 30}},
			wantErr:   false,
		},
		{
			name:      "mixed names and lists",
			colorList: []any{"red", []any{330.5, 70.0}},
			wantErr:   false,
		},
		{
			name:      "empty list is valid",
			colorList: []any{},
			wantErr:   false,
		},
		{
			name:      "missing list",
			colorList: nil,
			wantErr:   true,
		},
		{
			name:      "bare number entry",
			colorList: []any{"red", 42},
			wantErr:   true,
		},
		{
			name:      "map entry",
			colorList: []any{map[string]any{"hue": 330}},
			wantErr:   true,
		},
		{
			name:      "empty string entry",
			colorList: []any{""},
			wantErr:   true,
		},
		{
			name:      "empty component list entry",
			colorList: []any{[]any{}},
			wantErr:   true,
		},
		{
			name:      "non-numeric component",
			colorList: []any{[]any{330, "seventy"}},
			wantErr:   true,
		},
		{
			name:      "boolean entry",
			colorList: []any{true},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePalette(tt.colorList)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePalette() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPalette) {
				t.Errorf("ValidatePalette() error = %v, want ErrInvalidPalette", err)
			}
		})
	}
}

func TestValidatePalette_FailsOnFirstInvalidEntry(t *testing.T) {
	// Entry 1 is invalid; entry 3 would also be. The error must name entry 1.
	err := ValidatePalette([]any{"red", 42, "blue", []any{}})
	if err == nil {
		t.Fatal("ValidatePalette() expected error, got nil")
	}
	want := "entry 1"
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("error %q does not mention %q", got, want)
	}
}
