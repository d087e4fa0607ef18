package mockup

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/ownaimerch/merch-credits/internal/domain/entity"
	errs "github.com/ownaimerch/merch-credits/internal/domain/error"
	"github.com/ownaimerch/merch-credits/internal/infrastructure/config"
)

// Config for garment previews
type Config struct {
	TemplatePath string // optional garment photo; solid canvas when empty
	Width        int    // canvas width when no template (default 1000)
	Height       int    // canvas height when no template (default 1200)
	PrintArea    entity.PrintArea
}

// NewConfig converts the application mockup settings
func NewConfig(conf config.MockupConfig) Config {
	return Config{
		TemplatePath: conf.TemplatePath,
		Width:        conf.Width,
		Height:       conf.Height,
		PrintArea:    entity.StandardPrintArea(),
	}
}

var namedColors = map[string]color.NRGBA{
	"white": {R: 255, G: 255, B: 255, A: 255},
	"black": {R: 17, G: 17, B: 17, A: 255},
	"navy":  {R: 31, G: 42, B: 68, A: 255},
	"gray":  {R: 150, G: 150, B: 150, A: 255},
	"grey":  {R: 150, G: 150, B: 150, A: 255},
	"red":   {R: 178, G: 34, B: 34, A: 255},
	"sand":  {R: 222, G: 203, B: 164, A: 255},
}

// Compositor renders artwork onto a garment with the print area placement
type Compositor struct {
	config   Config
	template image.Image
}

// NewCompositor loads the template once
func NewCompositor(conf Config) (*Compositor, error) {
	if conf.Width <= 0 {
		conf.Width = 1000
	}
	if conf.Height <= 0 {
		conf.Height = 1200
	}
	if conf.PrintArea.Scale <= 0 {
		conf.PrintArea = entity.StandardPrintArea()
	}

	c := &Compositor{config: conf}
	if conf.TemplatePath != "" {
		template, err := imaging.Open(conf.TemplatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open mockup template: %w", err)
		}
		c.template = template
	}
	return c, nil
}

// Compose places the artwork on the garment and encodes PNG
func (c *Compositor) Compose(artwork []byte, garmentColor string) ([]byte, error) {
	art, err := imaging.Decode(bytes.NewReader(artwork))
	if err != nil {
		return nil, fmt.Errorf("%w: artwork is not a decodable image: %v", errs.ErrInvalidRequest, err)
	}

	canvas, err := c.canvas(garmentColor)
	if err != nil {
		return nil, err
	}

	bounds := canvas.Bounds()
	area := c.config.PrintArea
	side := int(float64(bounds.Dx()) * area.Scale)
	if side < 1 {
		side = 1
	}

	var placed *image.NRGBA
	if art.Bounds().Dx() >= art.Bounds().Dy() {
		placed = imaging.Resize(art, side, 0, imaging.Lanczos)
	} else {
		placed = imaging.Resize(art, 0, side, imaging.Lanczos)
	}
	if area.Angle != 0 {
		placed = imaging.Rotate(placed, -area.Angle, color.Transparent)
	}

	center := image.Pt(
		bounds.Min.X+int(float64(bounds.Dx())*area.X),
		bounds.Min.Y+int(float64(bounds.Dy())*area.Y),
	)
	topLeft := center.Sub(image.Pt(placed.Bounds().Dx()/2, placed.Bounds().Dy()/2))
	composed := imaging.Overlay(canvas, placed, topLeft, 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, composed, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode mockup: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Compositor) canvas(garmentColor string) (image.Image, error) {
	if c.template != nil {
		return c.template, nil
	}
	fill, err := parseColor(garmentColor)
	if err != nil {
		return nil, err
	}
	return imaging.New(c.config.Width, c.config.Height, fill), nil
}

// parseColor accepts a known garment name or #rgb / #rrggbb
func parseColor(value string) (color.NRGBA, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if named, ok := namedColors[value]; ok {
		return named, nil
	}

	hex := strings.TrimPrefix(value, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("%w: unknown garment color %q", errs.ErrInvalidRequest, value)
	}
	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: unknown garment color %q", errs.ErrInvalidRequest, value)
	}
	return color.NRGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 255}, nil
}
