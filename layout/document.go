// Package layout places quotation and gallery content onto an explicit list of A4 pages.
// Every page owns its draw commands in millimetres; the pdf package serialises the result.
package layout

import (
	"strconv"
	"strings"

	"github.com/flanksource/banquet/images"
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font names one of the core PDF fonts. Style is "", "B", "I" or "BI".
type Font struct {
	Family string  `json:"family"`
	Style  string  `json:"style,omitempty"`
	Size   float64 `json:"size"`
}

const defaultFamily = "Helvetica"

func regular(size float64) Font { return Font{Family: defaultFamily, Size: size} }
func bold(size float64) Font    { return Font{Family: defaultFamily, Style: "B", Size: size} }
func italic(size float64) Font  { return Font{Family: defaultFamily, Style: "I", Size: size} }

type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}
	White = Color{0xff, 0xff, 0xff}
)

// Hex parses #RGB or #RRGGBB. Malformed components read as zero.
func Hex(hex string) Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return Black
	}
	component := func(s string) uint8 {
		v, err := strconv.ParseUint(s, 16, 8)
		if err != nil {
			return 0
		}
		return uint8(v)
	}
	return Color{component(hex[0:2]), component(hex[2:4]), component(hex[4:6])}
}

// Command is a single draw instruction. The set is closed: Text, Rect, Line and Image.
type Command interface {
	command()
}

// Text is drawn with its baseline at Y. X is the left edge, centre or right edge depending on Align.
type Text struct {
	X, Y  float64
	Text  string
	Font  Font
	Color Color
	Align Align
}

// Rect is filled when Fill is set and stroked when Stroke is set.
type Rect struct {
	X, Y, W, H float64
	Fill       *Color
	Stroke     *Color
	LineWidth  float64
}

type Line struct {
	X1, Y1, X2, Y2 float64
	Color          Color
	Width          float64
}

type Image struct {
	X, Y, W, H float64
	Bitmap     *images.Bitmap
}

func (Text) command()  {}
func (Rect) command()  {}
func (Line) command()  {}
func (Image) command() {}

type Page struct {
	Commands []Command
}

func (p *Page) Add(commands ...Command) {
	p.Commands = append(p.Commands, commands...)
}

// Texts returns the strings drawn on the page in command order.
func (p *Page) Texts() []string {
	var out []string
	for _, c := range p.Commands {
		if t, ok := c.(Text); ok {
			out = append(out, t.Text)
		}
	}
	return out
}

// Document is append-only while an engine builds it.
type Document struct {
	Width  float64
	Height float64
	Pages  []*Page
}

func NewDocument(width, height float64) *Document {
	return &Document{Width: width, Height: height}
}

// AddPage appends an empty page and returns it.
func (d *Document) AddPage() *Page {
	p := &Page{}
	d.Pages = append(d.Pages, p)
	return p
}

// Bitmaps lists every distinct bitmap payload referenced by the document, in first-use order.
func (d *Document) Bitmaps() []*images.Bitmap {
	seen := map[string]bool{}
	var out []*images.Bitmap
	for _, p := range d.Pages {
		for _, c := range p.Commands {
			img, ok := c.(Image)
			if !ok || img.Bitmap == nil || seen[img.Bitmap.Key()] {
				continue
			}
			seen[img.Bitmap.Key()] = true
			out = append(out, img.Bitmap)
		}
	}
	return out
}

// ContainsText reports whether any page draws exactly s.
func (d *Document) ContainsText(s string) bool {
	for _, p := range d.Pages {
		for _, t := range p.Texts() {
			if t == s {
				return true
			}
		}
	}
	return false
}
