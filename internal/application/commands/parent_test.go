package commands

import (
	"testing"

	"docbridge/internal/domain"
)

func TestResolveParent(t *testing.T) {
	forest, _ := domain.BuildForest([]domain.RemotePage{
		{ID: "pg-a", Name: "a"},
		{ID: "pg-b", Name: "b", ParentID: "pg-a"},
		{ID: "pg-x", Name: "x"},
	})

	tests := []struct {
		name     string
		segments []string
		fallback string
		want     string
	}{
		{"no segments keeps fallback", nil, "fb", "fb"},
		{"single hit", []string{"a"}, "fb", "pg-a"},
		{"nested hit", []string{"a", "b"}, "fb", "pg-b"},
		{"miss keeps fallback", []string{"NoSuchFolder"}, "fb", "fb"},
		{"miss keeps previous hit", []string{"a", "missing"}, "fb", "pg-a"},
		{"later hit overrides", []string{"missing", "x"}, "fb", "pg-x"},
		{"empty fallback", []string{"missing"}, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveParent(tt.segments, forest, tt.fallback)
			if got != tt.want {
				t.Errorf("ResolveParent(%v) = %q, want %q", tt.segments, got, tt.want)
			}
		})
	}
}
