package utils

import "testing"

func TestMergeLabel(t *testing.T) {
	tests := []struct {
		name     string
		existing Label
		incoming Label
		want     Label
	}{
		{
			name:     "both present",
			existing: Label{Value: "content", Source: "recall"},
			incoming: Label{Value: "popular", Source: "fallback"},
			want:     Label{Value: "content|popular", Source: "recall,fallback"},
		},
		{
			name:     "empty existing",
			existing: Label{},
			incoming: Label{Value: "popular", Source: "recall"},
			want:     Label{Value: "popular", Source: "recall"},
		},
		{
			name:     "empty incoming",
			existing: Label{Value: "content", Source: "recall"},
			incoming: Label{},
			want:     Label{Value: "content", Source: "recall"},
		},
		{
			name:     "missing incoming source",
			existing: Label{Value: "a", Source: "recall"},
			incoming: Label{Value: "b"},
			want:     Label{Value: "a|b", Source: "recall"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeLabel(tt.existing, tt.incoming)
			if got != tt.want {
				t.Errorf("MergeLabel = %+v, want %+v", got, tt.want)
			}
		})
	}
}
