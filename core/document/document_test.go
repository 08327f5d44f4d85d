package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRejectsNonMarkup(t *testing.T) {
	inputs := map[string][]byte{
		"empty":      nil,
		"whitespace": []byte("  \n\t "),
		"plain text": []byte("just a product code WL7476"),
		"binary":     {'<', 'h', 't', 'm', 'l', '>', 0x00, 0x01},
	}
	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			doc, err := Parse(raw)
			assert.Nil(t, doc)
			assert.ErrorIs(t, err, ErrUnparseable)
		})
	}
}

func TestParseFragment(t *testing.T) {
	doc, err := Parse([]byte(`<div class="a"><span> one </span><span>two</span></div>`))
	require.NoError(t, err)

	assert.Equal(t, "one two", doc.Text(Compile(".a")))
	assert.Equal(t, 2, doc.All(Compile("span")).Length())
	assert.Equal(t, "two", Text(doc.All(Compile("span")).Eq(1)))
}

func TestParseDecodesCharset(t *testing.T) {
	// "Diámetro" in ISO-8859-1.
	raw := append([]byte(`<html><head><meta charset="iso-8859-1"></head><body><p>Di`), 0xE1)
	raw = append(raw, []byte(`metro</p></body></html>`)...)

	doc, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Diámetro", doc.Text(Compile("p")))
}

func TestFirstOf(t *testing.T) {
	doc, err := Parse([]byte(`<h2>second</h2><h3>third</h3>`))
	require.NoError(t, err)

	assert.Equal(t, "second", Text(doc.FirstOf(Compile("h1"), Compile("h2"), Compile("h3"))))
	assert.Equal(t, 0, doc.FirstOf(Compile("h1"), nil).Length())
	assert.Equal(t, 0, doc.FirstOf().Length())
}

func TestAttr(t *testing.T) {
	doc, err := Parse([]byte(`<img class="x" src=" /a.jpg ">`))
	require.NoError(t, err)

	assert.Equal(t, "/a.jpg", doc.Attr(Compile(".x"), "src"))
	assert.Empty(t, doc.Attr(Compile(".x"), "alt"))
	assert.Empty(t, doc.Attr(Compile(".missing"), "src"))
}

func TestTextExcluding(t *testing.T) {
	doc, err := Parse([]byte(`<div id="a">1.6 TDI, <span class="d">2009 - 2013</span> <b>CAYC</b></div>`))
	require.NoError(t, err)

	assert.Equal(t, "1.6 TDI, CAYC", TextExcluding(doc.First(Compile("#a")), Compile(".d")))
}

func TestTextExcludingNestedMatch(t *testing.T) {
	doc, err := Parse([]byte(`<div id="a">2.0 D-4D <span class="wrap"><i>from</i> <span class="d">2006 -</span></span></div>`))
	require.NoError(t, err)

	assert.Equal(t, "2.0 D-4D from", TextExcluding(doc.First(Compile("#a")), Compile(".d")))
	assert.Empty(t, TextExcluding(doc.First(Compile("#missing")), Compile(".d")))
}

func TestCollapse(t *testing.T) {
	assert.Equal(t, "a b c", Collapse("  a\n\tb   c "))
	assert.Empty(t, Collapse(" \n "))
}
