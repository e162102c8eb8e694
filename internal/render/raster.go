package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/bulkexchange/accesscard/pkg/card"
	"github.com/bulkexchange/accesscard/pkg/domain"
)

// Logical card size; the canvas is this times Options.PixelRatio.
const (
	Width  = 600
	Height = 340
)

// ErrMissingGlyph is returned by the bitmap path when the card contains a
// character the built-in face cannot draw.
var ErrMissingGlyph = errors.New("render: glyph not available in built-in face")

// DefaultBackground is the page color behind the card.
var DefaultBackground = color.RGBA{R: 0x07, G: 0x0a, B: 0x12, A: 0xff}

// Options control one rasterization attempt.
type Options struct {
	PixelRatio int
	Background color.Color
	// SkipFonts draws with the built-in bitmap face instead of loading the
	// embedded OpenType fonts.
	SkipFonts bool
	// CacheBust appends a throwaway query parameter when fetching remote avatars.
	CacheBust bool
}

// PrimaryOptions is the first attempt of every export.
func PrimaryOptions() Options {
	return Options{PixelRatio: 2, Background: DefaultBackground, SkipFonts: true, CacheBust: true}
}

// FallbackOptions is the single retry after the primary attempt fails.
func FallbackOptions() Options {
	o := PrimaryOptions()
	o.SkipFonts = false
	return o
}

// Rasterizer draws a card view. avatar may be nil, in which case the initials
// tile is drawn.
type Rasterizer interface {
	Rasterize(ctx context.Context, v card.View, avatar image.Image, opts Options) (image.Image, error)
}

// CardRasterizer is the default Rasterizer.
type CardRasterizer struct{}

var (
	panelColor  = color.RGBA{R: 0x0e, G: 0x14, B: 0x24, A: 0xff}
	tileColor   = color.RGBA{R: 0x1c, G: 0x23, B: 0x33, A: 0xff}
	pillColor   = color.RGBA{R: 0x22, G: 0x1a, B: 0x3a, A: 0xff}
	textColor   = color.RGBA{R: 0xf1, G: 0xf5, B: 0xf9, A: 0xff}
	dimColor    = color.RGBA{R: 0x94, G: 0xa3, B: 0xb8, A: 0xff}
	accentFrom  = color.RGBA{R: 0xd9, G: 0x46, B: 0xef, A: 0xff}
	accentTo    = color.RGBA{R: 0x22, G: 0xd3, B: 0xee, A: 0xff}
	fullColor   = color.RGBA{R: 0x34, G: 0xd3, B: 0x99, A: 0xff}
	limitColor  = color.RGBA{R: 0xfb, G: 0xbf, B: 0x24, A: 0xff}
	noneColor   = color.RGBA{R: 0x64, G: 0x74, B: 0x8b, A: 0xff}
	footerBrand = "BULK - One Exchange"
	headerText  = "BULK ACCESS CARD"
)

// Rasterize implements Rasterizer.
func (CardRasterizer) Rasterize(ctx context.Context, v card.View, avatar image.Image, opts Options) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ratio := opts.PixelRatio
	if ratio < 1 {
		ratio = 1
	}
	bg := opts.Background
	if bg == nil {
		bg = DefaultBackground
	}

	if opts.SkipFonts {
		if r, ok := firstUncovered(cardTexts(v)); !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingGlyph, r)
		}
		f := bitmapFaces()
		img := drawCard(v, avatar, bg, f, 1)
		if ratio == 1 {
			return img, nil
		}
		dst := image.NewRGBA(image.Rect(0, 0, Width*ratio, Height*ratio))
		xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		return dst, nil
	}

	f, err := vectorFaces(ratio)
	if err != nil {
		return nil, err
	}
	defer f.close()
	return drawCard(v, avatar, bg, f, ratio), nil
}

type faceSet struct {
	small, body, title, initial font.Face
	closers                     []font.Face
}

func (f *faceSet) close() {
	for _, c := range f.closers {
		c.Close() //nolint:errcheck // opentype faces never fail to close
	}
}

func bitmapFaces() *faceSet {
	face := basicfont.Face7x13
	return &faceSet{small: face, body: face, title: face, initial: face}
}

var (
	fontsOnce sync.Once
	regular   *sfnt.Font
	bold      *sfnt.Font
	fontsErr  error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regular, fontsErr = opentype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		bold, fontsErr = opentype.Parse(gobold.TTF)
	})
	return fontsErr
}

func vectorFaces(scale int) (*faceSet, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("render: parse fonts: %w", err)
	}
	f := &faceSet{}
	specs := []struct {
		dst  *font.Face
		font *sfnt.Font
		size float64
	}{
		{&f.small, regular, 12},
		{&f.body, regular, 15},
		{&f.title, bold, 24},
		{&f.initial, bold, 44},
	}
	for _, s := range specs {
		face, err := opentype.NewFace(s.font, &opentype.FaceOptions{
			Size:    s.size * float64(scale),
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			f.close()
			return nil, fmt.Errorf("render: build face: %w", err)
		}
		*s.dst = face
		f.closers = append(f.closers, face)
	}
	return f, nil
}

func cardTexts(v card.View) []string {
	texts := []string{headerText, footerBrand, v.DisplayName, v.Handle, v.CardID, v.IssueDate, v.Initial, v.Region, v.Access.Note, accessLabel(v.Access.Level)}
	return append(texts, v.ActiveStatusLabels...)
}

// firstUncovered returns the first rune basicfont cannot draw.
func firstUncovered(texts []string) (rune, bool) {
	for _, s := range texts {
		for _, r := range s {
			if !bitmapCovers(r) {
				return r, false
			}
		}
	}
	return 0, true
}

func bitmapCovers(r rune) bool {
	if r == '\ufffd' {
		return false
	}
	for _, rng := range basicfont.Face7x13.Ranges {
		if rng.Low <= r && r < rng.High {
			return true
		}
	}
	return false
}

func accessLabel(l domain.AccessLevel) string {
	return "ACCESS: " + strings.ToUpper(l.String())
}

func accessColor(l domain.AccessLevel) color.Color {
	switch l {
	case domain.AccessFull:
		return fullColor
	case domain.AccessLimited:
		return limitColor
	default:
		return noneColor
	}
}

func drawCard(v card.View, avatar image.Image, bg color.Color, f *faceSet, s int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, Width*s, Height*s))
	rect := func(x0, y0, x1, y1 int) image.Rectangle { return image.Rect(x0*s, y0*s, x1*s, y1*s) }

	fill(img, img.Bounds(), bg)
	fill(img, rect(16, 16, 584, 324), panelColor)
	gradient(img, rect(16, 16, 584, 20), accentFrom, accentTo)

	drawText(img, f.small, dimColor, headerText, 36*s, 46*s)
	drawTextRight(img, f.small, dimColor, "ID "+v.CardID, 564*s, 46*s)

	av := rect(36, 70, 132, 166)
	if avatar != nil {
		xdraw.CatmullRom.Scale(img, av, avatar, avatar.Bounds(), xdraw.Over, nil)
	} else {
		fill(img, av, tileColor)
		drawCentered(img, f.initial, textColor, v.Initial, av)
	}

	drawText(img, f.title, textColor, v.DisplayName, 152*s, 98*s)
	if v.Handle != "" {
		drawText(img, f.body, dimColor, "@"+v.Handle, 152*s, 122*s)
	}

	x := 152 * s
	for _, label := range v.ActiveStatusLabels {
		w := font.MeasureString(f.small, label).Ceil() + 16*s
		if x+w > 564*s {
			break
		}
		pill := image.Rect(x, 136*s, x+w, 158*s)
		fill(img, pill, pillColor)
		drawText(img, f.small, textColor, label, x+8*s, 152*s)
		x += w + 6*s
	}

	region := "Region: none"
	if v.Region != "" {
		region = "Region: " + v.Region
	}
	drawText(img, f.body, textColor, region, 152*s, 188*s)

	drawText(img, f.title, accessColor(v.Access.Level), accessLabel(v.Access.Level), 36*s, 240*s)
	drawText(img, f.small, dimColor, v.Access.Note, 36*s, 262*s)

	drawText(img, f.small, dimColor, "Issued "+v.IssueDate, 36*s, 304*s)
	drawTextRight(img, f.small, textColor, footerBrand, 564*s, 304*s)
	return img
}

func fill(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func gradient(dst draw.Image, r image.Rectangle, from, to color.RGBA) {
	span := r.Dx()
	if span <= 1 {
		fill(dst, r, from)
		return
	}
	for i := 0; i < span; i++ {
		c := color.RGBA{
			R: lerp(from.R, to.R, i, span-1),
			G: lerp(from.G, to.G, i, span-1),
			B: lerp(from.B, to.B, i, span-1),
			A: 0xff,
		}
		col := image.Rect(r.Min.X+i, r.Min.Y, r.Min.X+i+1, r.Max.Y)
		fill(dst, col, c)
	}
}

func lerp(a, b uint8, i, n int) uint8 {
	return uint8(int(a) + (int(b)-int(a))*i/n)
}

func drawText(dst draw.Image, face font.Face, c color.Color, s string, x, y int) {
	d := font.Drawer{Dst: dst, Src: image.NewUniform(c), Face: face, Dot: fixed.P(x, y)}
	d.DrawString(s)
}

func drawTextRight(dst draw.Image, face font.Face, c color.Color, s string, right, y int) {
	w := font.MeasureString(face, s).Ceil()
	drawText(dst, face, c, s, right-w, y)
}

func drawCentered(dst draw.Image, face font.Face, c color.Color, s string, box image.Rectangle) {
	w := font.MeasureString(face, s).Ceil()
	m := face.Metrics()
	x := box.Min.X + (box.Dx()-w)/2
	y := box.Min.Y + (box.Dy()+m.Ascent.Ceil()-m.Descent.Ceil())/2
	drawText(dst, face, c, s, x, y)
}
