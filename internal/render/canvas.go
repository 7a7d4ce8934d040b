package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	defaultTextSize = 18
	fontDPI         = 96
)

// Logger matches app.Logger.
type Logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// Canvas is the offscreen RGBA image screens draw into. It implements
// Drawer for every renderer.
type Canvas struct {
	img    *image.RGBA
	otFont *opentype.Font
	ttFont *truetype.Font
	faces  map[int]font.Face
	ttFace map[int]font.Face
	logger Logger
}

type nopLogger struct{}

func (nopLogger) Infof(string, string, ...interface{})  {}
func (nopLogger) Errorf(string, string, ...interface{}) {}

// NewCanvas allocates a width x height canvas and loads the Go font. Font
// failures fall back to basicfont.
func NewCanvas(width, height int, l Logger) *Canvas {
	if l == nil {
		l = nopLogger{}
	}
	c := &Canvas{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		faces:  make(map[int]font.Face),
		ttFace: make(map[int]font.Face),
		logger: l,
	}
	if f, err := opentype.Parse(goregular.TTF); err != nil {
		l.Errorf("canvas", "font parse failed, using basicfont: %v", err)
	} else {
		c.otFont = f
	}
	if tt, err := truetype.Parse(goregular.TTF); err != nil {
		l.Errorf("canvas", "truetype parse failed: %v", err)
	} else {
		c.ttFont = tt
	}
	return c
}

// Image returns the backing image.
func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) FillBackground() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: Background}, image.Point{}, draw.Src)
}

func (c *Canvas) face(size int) font.Face {
	if size <= 0 {
		size = defaultTextSize
	}
	if f, ok := c.faces[size]; ok {
		return f
	}
	var face font.Face = basicfont.Face7x13
	if c.otFont != nil {
		f, err := opentype.NewFace(c.otFont, &opentype.FaceOptions{Size: float64(size), DPI: fontDPI, Hinting: font.HintingFull})
		if err != nil {
			c.logger.Errorf("canvas", "font face %dpt failed, using basicfont: %v", size, err)
		} else {
			face = f
		}
	}
	c.faces[size] = face
	return face
}

func metricsOf(face font.Face, text string) TextMetrics {
	m := face.Metrics()
	return TextMetrics{
		Width:      font.MeasureString(face, text).Ceil(),
		Height:     (m.Ascent + m.Descent).Ceil(),
		Ascent:     m.Ascent.Ceil(),
		Descent:    m.Descent.Ceil(),
		LineHeight: m.Height.Ceil(),
	}
}

func (c *Canvas) MeasureText(text string, style TextStyle) TextMetrics {
	return metricsOf(c.face(style.Size), text)
}

func (c *Canvas) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	face := c.face(style.Size)
	tm := metricsOf(face, text)
	switch style.Align {
	case TextAlignCenter:
		x -= tm.Width / 2
	case TextAlignRight:
		x -= tm.Width
	}
	col := style.Color
	if col == nil {
		col = Foreground
	}
	drawer := &font.Drawer{Dst: c.img, Src: image.NewUniform(col), Face: face}
	drawer.Dot = fixed.P(x, y+tm.Ascent)
	drawer.DrawString(text)
	return tm
}

// DrawTextClipped renders with freetype so glyphs never leak out of rect.
func (c *Canvas) DrawTextClipped(text string, rect image.Rectangle, style TextStyle) {
	size := style.Size
	if size <= 0 {
		size = defaultTextSize
	}
	col := style.Color
	if col == nil {
		col = Foreground
	}
	if c.ttFont == nil {
		c.DrawText(text, rect.Min.X+rect.Dx()/2, rect.Min.Y, TextStyle{Color: col, Size: size, Align: TextAlignCenter})
		return
	}

	face, ok := c.ttFace[size]
	if !ok {
		face = truetype.NewFace(c.ttFont, &truetype.Options{Size: float64(size), DPI: fontDPI})
		c.ttFace[size] = face
	}
	tm := metricsOf(face, text)
	x := rect.Min.X
	switch style.Align {
	case TextAlignCenter:
		x += (rect.Dx() - tm.Width) / 2
	case TextAlignRight:
		x = rect.Max.X - tm.Width
	}
	y := rect.Min.Y + (rect.Dy()-tm.Height)/2 + tm.Ascent

	ctx := freetype.NewContext()
	ctx.SetDPI(fontDPI)
	ctx.SetFont(c.ttFont)
	ctx.SetFontSize(float64(size))
	ctx.SetHinting(font.HintingFull)
	ctx.SetClip(rect.Intersect(c.img.Bounds()))
	ctx.SetDst(c.img)
	ctx.SetSrc(image.NewUniform(col))
	if _, err := ctx.DrawString(text, freetype.Pt(x, y)); err != nil {
		c.logger.Errorf("canvas", "draw %q failed: %v", text, err)
	}
}

func (c *Canvas) DrawImage(img image.Image, x, y int, opts ImageOpts) {
	if img == nil {
		return
	}
	b := img.Bounds()
	dst := image.Rect(x, y, x+b.Dx(), y+b.Dy())
	op := draw.Src
	if opts.Over {
		op = draw.Over
	}
	draw.Draw(c.img, dst, img, b.Min, op)
}

// DrawImageInRect scales img into rect with nearest neighbour sampling.
func (c *Canvas) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil || rect.Empty() {
		return
	}
	dst := scaledRect(img.Bounds(), rect, mode)
	xdraw.NearestNeighbor.Scale(subImage(c.img, rect), dst, img, img.Bounds(), xdraw.Over, nil)
}

func subImage(img *image.RGBA, rect image.Rectangle) draw.Image {
	return img.SubImage(rect.Intersect(img.Bounds())).(*image.RGBA)
}

// scaledRect places src inside rect according to mode.
func scaledRect(src, rect image.Rectangle, mode ScaleMode) image.Rectangle {
	sw, sh := src.Dx(), src.Dy()
	if mode == ScaleModeStretch || sw == 0 || sh == 0 {
		return rect
	}
	sx := float64(rect.Dx()) / float64(sw)
	sy := float64(rect.Dy()) / float64(sh)
	scale := sx
	if (mode == ScaleModeFit && sy < sx) || (mode == ScaleModeFill && sy > sx) {
		scale = sy
	}
	w := int(float64(sw) * scale)
	h := int(float64(sh) * scale)
	x0 := rect.Min.X + (rect.Dx()-w)/2
	y0 := rect.Min.Y + (rect.Dy()-h)/2
	return image.Rect(x0, y0, x0+w, y0+h)
}

// FillRect paints rect with col, blending when col is translucent.
func (c *Canvas) FillRect(rect image.Rectangle, col color.Color) {
	draw.Draw(c.img, rect, image.NewUniform(col), image.Point{}, draw.Over)
}
