package catalog

import (
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"ThinkPad X1", "thinkpad-x1"},
		{"  Galaxy   S24 Ultra ", "galaxy-s24-ultra"},
		{"Café Déjà Vu", "cafe-deja-vu"},
		{"USB-C / HDMI Adapter", "usb-c-hdmi-adapter"},
		{"!!!", "product"},
		{"", "product"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			qt.New(t).Assert(Slugify(tt.title), qt.Equals, tt.want)
		})
	}
}

func TestSlugifyFitsColumn(t *testing.T) {
	c := qt.New(t)

	s := Slugify(strings.Repeat("ab ", 200))
	c.Assert(len(s) <= 240, qt.IsTrue, qt.Commentf("len %d", len(s)))
	c.Assert(ValidSlug(s), qt.IsTrue)
	c.Assert(strings.HasSuffix(s, "-"), qt.IsFalse)

	// Room remains for the disambiguating suffix.
	c.Assert(len(UniqueSlug(s, []string{s})) <= 255, qt.IsTrue)
}

func TestValidSlug(t *testing.T) {
	c := qt.New(t)
	c.Assert(ValidSlug("thinkpad-x1"), qt.IsTrue)
	c.Assert(ValidSlug("ThinkPad X1"), qt.IsFalse)
	c.Assert(ValidSlug("-leading"), qt.IsFalse)
	c.Assert(ValidSlug(""), qt.IsFalse)
}

func TestUniqueSlug(t *testing.T) {
	tests := []struct {
		name  string
		taken []string
		want  string
	}{
		{"free", nil, "thinkpad-x1"},
		{"taken once", []string{"thinkpad-x1"}, "thinkpad-x1-2"},
		{"fills the first gap", []string{"thinkpad-x1", "thinkpad-x1-2", "thinkpad-x1-4"}, "thinkpad-x1-3"},
		{"unrelated slugs", []string{"thinkpad-x1-carbon"}, "thinkpad-x1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qt.New(t).Assert(UniqueSlug("thinkpad-x1", tt.taken), qt.Equals, tt.want)
		})
	}
}
