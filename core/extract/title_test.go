package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitTitle(t *testing.T) {
	colon := titleRule{delimiter: ":"}
	azumi := azumiProfile.title

	tests := []struct {
		name     string
		title    string
		rule     titleRule
		expected identity
	}{
		{
			name:     "category and sku",
			title:    "Filtros de aceite: WL7476",
			rule:     colon,
			expected: identity{category: "Filtros de aceite", sku: "WL7476", name: "Filtro de aceite WL7476"},
		},
		{
			name:     "slash replaced and ellipsis dropped",
			title:    "Filtros de aire...:  AP 081/2",
			rule:     colon,
			expected: identity{category: "Filtros de aire", sku: "AP 081-2", name: "Filtro de aire AP 081-2"},
		},
		{
			name:     "no delimiter keeps whole title",
			title:    "WL 7476/1",
			rule:     colon,
			expected: identity{sku: "WL 7476-1", name: "WL 7476/1"},
		},
		{
			name:     "azumi alias",
			title:    "OIL FILTER | AZUMI - C 21026",
			rule:     azumi,
			expected: identity{category: "OIL FILTER", sku: "C 21026", name: "Filtro de Aceite C 21026"},
		},
		{
			name:     "azumi without brand separator",
			title:    "Air filters | A 24036",
			rule:     azumi,
			expected: identity{category: "Air filters", sku: "A 24036", name: "Air filter A 24036"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, splitTitle(tt.title, tt.rule))
		})
	}
}

func TestSingularize(t *testing.T) {
	tests := map[string]string{
		"Filtros de aceite":    "Filtro de aceite",
		"FILTROS DE AIRE":      "FILTRO DE AIRE",
		"Elementos filtrantes": "Elemento filtrantes",
		"Juegos de filtros":    "Juego de filtros",
		"Oil Filters":          "Oil Filter",
		"Cartuchos":            "Cartucho",
		"Filtrosa":             "Filtrosa",
		"Glass":                "Glass",
		"Filtro":               "Filtro",
	}
	for in, want := range tests {
		assert.Equal(t, want, singularize(in), in)
	}
}

func TestIsOriginal(t *testing.T) {
	assert.True(t, IsOriginal("BMW"))
	assert.True(t, IsOriginal("Mercedes-Benz"))
	assert.True(t, IsOriginal("alfa romeo"))
	assert.True(t, IsOriginal("VW / AUDI"))
	assert.False(t, IsOriginal("WIX"))
	assert.False(t, IsOriginal("MANN-FILTER"))
	assert.False(t, IsOriginal("MINI"))
	assert.False(t, IsOriginal("BOSCH"))
	assert.False(t, IsOriginal("HENGST GMBH"))
	assert.False(t, IsOriginal("Kian Filters"))
	assert.True(t, IsOriginal("GM Europe"))
}

func TestAbsolutize(t *testing.T) {
	tests := []struct {
		ref, expected string
	}{
		{"", ""},
		{"//cdn.example.com/a.jpg", "https://cdn.example.com/a.jpg"},
		{"/images/a.jpg", "https://wixeurope.com/images/a.jpg"},
		{"images/a.jpg", "https://wixeurope.com/images/a.jpg"},
		{"http://other.com/a.jpg", "http://other.com/a.jpg"},
		{"data:image/png;base64,AAAA", "data:image/png;base64,AAAA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, absolutize(tt.ref, DomainWIX+"/"), tt.ref)
	}
}
