package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Nitrile gloves (M)", "Nitrile gloves (M)"},
		{"trims", "  Masks \n", "Masks"},
		{"ampersand kept", "Henry Schein & Co", "Henry Schein & Co"},
		{"comparison kept", "size < 5 mm", "size < 5 mm"},
		{"tags stripped", "<b>Composite</b> A2", "Composite A2"},
		{"script dropped", `<script>alert(1)</script>Floss`, "Floss"},
		{"handler dropped", `<img src=x onerror="alert(1)">Bibs`, "Bibs"},
		{"only markup", "<script>alert(1)</script>", ""},
		{"encoded tags stripped", "&lt;b&gt;Gloves&lt;/b&gt;", "Gloves"},
		{"encoded script dropped", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"double encoded", "&amp;lt;b&amp;gt;Bibs&amp;lt;/b&amp;gt;", "Bibs"},
		{"entity decoded", "A &amp; B", "A & B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.in))
		})
	}
}
