package errors

import (
	"math"
	"testing"
)

func TestValidateFPS(t *testing.T) {
	tests := []struct {
		fps     int
		wantErr bool
	}{
		{120, false},
		{1, false},
		{MaxFPS, false},
		{0, true},
		{-5, true},
		{MaxFPS + 1, true},
	}
	for _, tt := range tests {
		err := ValidateFPS(tt.fps)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFPS(%d) error = %v, wantErr %v", tt.fps, err, tt.wantErr)
		}
		if err != nil && !Is(err, ErrCodeInvalidInput) {
			t.Errorf("ValidateFPS(%d) code = %v, want %v", tt.fps, GetCode(err), ErrCodeInvalidInput)
		}
	}
}

func TestValidateSize(t *testing.T) {
	tests := []struct {
		name    string
		w, h    float64
		wantErr bool
	}{
		{"normal", 800, 600, false},
		{"zero width", 0, 600, true},
		{"negative height", 800, -1, true},
		{"nan", math.NaN(), 600, true},
		{"too large", MaxCanvasDim + 1, 600, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSize(tt.w, tt.h); (err != nil) != tt.wantErr {
				t.Errorf("ValidateSize() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNeighborRange(t *testing.T) {
	tests := []struct {
		name           string
		nodes, min, mx int
		wantErr        bool
	}{
		{"defaults", 10, 0, 2, false},
		{"empty graph", 0, 0, 0, false},
		{"fixed", 5, 2, 2, false},
		{"negative nodes", -1, 0, 0, true},
		{"inverted", 10, 3, 1, true},
		{"negative min", 10, -1, 1, true},
		{"max too large", 3, 0, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateNeighborRange(tt.nodes, tt.min, tt.mx); (err != nil) != tt.wantErr {
				t.Errorf("ValidateNeighborRange() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateFormat(t *testing.T) {
	supported := []string{"svg", "dot"}
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{" DOT ", false},
		{"", true},
		{"png", true},
	}
	for _, tt := range tests {
		err := ValidateFormat(tt.format, supported)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && GetCode(err) != ErrCodeInvalidFormat {
			t.Errorf("ValidateFormat(%q) code = %v, want %v", tt.format, GetCode(err), ErrCodeInvalidFormat)
		}
	}
}
