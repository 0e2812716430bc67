package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/internal/sharecard"
	"github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/logger"
)

const (
	cardWidth  = 1200
	cardHeight = 630

	sideImageWidth = 480
	marginX        = 64
)

// Family background tints.
var backgrounds = map[sharecard.EntityType]color.RGBA{
	sharecard.EntityProduct:     {R: 0x2b, G: 0x2d, B: 0x42, A: 0xff},
	sharecard.EntityFund:        {R: 0x1d, G: 0x35, B: 0x57, A: 0xff},
	sharecard.EntityBusiness:    {R: 0x37, G: 0x2f, B: 0x4f, A: 0xff},
	sharecard.EntityAdminInvite: {R: 0x20, G: 0x33, B: 0x2d, A: 0xff},
}

var (
	textPrimary   = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	textSecondary = color.RGBA{R: 0xcf, G: 0xd4, B: 0xdd, A: 0xff}
	barBackground = color.RGBA{R: 0x4a, G: 0x4e, B: 0x69, A: 0xff}
	barFill       = color.RGBA{R: 0x5b, G: 0xc0, B: 0x70, A: 0xff}
)

// Options configures the card renderer.
type Options struct {
	// FontPath points at an OpenType font file. Empty or unreadable paths
	// degrade to the builtin face.
	FontPath string

	// FetchTimeout bounds remote entity-image fetches.
	FetchTimeout time.Duration
}

// CardRenderer composes 1200x630 share-card PNGs.
type CardRenderer struct {
	fontPath string
	client   *http.Client
	log      *zap.Logger
}

// NewCardRenderer builds the default renderer.
func NewCardRenderer(opts Options) *CardRenderer {
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	return &CardRenderer{
		fontPath: opts.FontPath,
		client:   &http.Client{Timeout: timeout},
		log:      logger.WithModule("render"),
	}
}

// Render draws the card for the payload and encodes it as PNG.
func (r *CardRenderer) Render(ctx context.Context, payload sharecard.Payload) ([]byte, error) {
	if !payload.EntityType.Valid() {
		return nil, fmt.Errorf("render: unknown entity type %q", payload.EntityType)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, cardWidth, cardHeight))
	fillRect(canvas, canvas.Bounds(), backgrounds[payload.EntityType])

	textWidth := cardWidth - 2*marginX
	if payload.ImageURL != nil {
		if r.drawSideImage(ctx, canvas, *payload.ImageURL) {
			textWidth = cardWidth - sideImageWidth - 2*marginX
		}
	}

	title, body := cardFaces(r.fontPath)

	drawText(canvas, title, textPrimary, marginX, 160, truncate(payload.Title, textWidth, title))
	if payload.Subtitle != "" {
		drawText(canvas, body, textSecondary, marginX, 230, truncate(payload.Subtitle, textWidth, body))
	}

	switch payload.EntityType {
	case sharecard.EntityProduct:
		r.drawProductDetails(canvas, body, payload)
	case sharecard.EntityFund:
		r.drawFundProgress(canvas, body, payload)
	case sharecard.EntityBusiness, sharecard.EntityAdminInvite:
		// Title and subtitle carry everything these families display.
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("render: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *CardRenderer) drawProductDetails(canvas *image.RGBA, face font.Face, payload sharecard.Payload) {
	price := fmt.Sprintf("%.2f %s", float64(payload.AmountCents)/100, payload.Currency)
	drawText(canvas, face, textPrimary, marginX, 420, price)

	if payload.RatingCount > 0 {
		rating := fmt.Sprintf("%.1f / 5 (%d reviews)", payload.RatingAvg, payload.RatingCount)
		drawText(canvas, face, textSecondary, marginX, 480, rating)
	}
}

// drawFundProgress renders the bucketed progress bar. The raw contribution
// total is intentionally absent from the payload; only the quantized bucket
// reaches the pixels, which is what keeps the cache stable between buckets.
func (r *CardRenderer) drawFundProgress(canvas *image.RGBA, face font.Face, payload sharecard.Payload) {
	const barY = 440
	const barHeight = 28
	barWidth := cardWidth - 2*marginX

	fillRect(canvas, image.Rect(marginX, barY, marginX+barWidth, barY+barHeight), barBackground)

	filled := barWidth * payload.ProgressBucket / 100
	if filled > 0 {
		fillRect(canvas, image.Rect(marginX, barY, marginX+filled, barY+barHeight), barFill)
	}

	target := fmt.Sprintf("%d%% of %.0f %s", payload.ProgressBucket, float64(payload.AmountCents)/100, payload.Currency)
	drawText(canvas, face, textPrimary, marginX, barY+barHeight+50, target)
}

// drawSideImage fetches the entity image and fits it into the right column.
// Any failure degrades to a text-only card rather than failing the render.
func (r *CardRenderer) drawSideImage(ctx context.Context, canvas *image.RGBA, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		r.log.Debug("entity image request invalid", zap.String("url", url), zap.Error(err))
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("entity image fetch failed", zap.String("url", url), zap.Error(err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.Debug("entity image fetch rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
		return false
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		r.log.Debug("entity image undecodable", zap.String("url", url), zap.Error(err))
		return false
	}

	fitted := imaging.Fill(img, sideImageWidth, cardHeight, imaging.Center, imaging.Lanczos)
	target := image.Rect(cardWidth-sideImageWidth, 0, cardWidth, cardHeight)
	draw.Draw(canvas, target, fitted, image.Point{}, draw.Src)
	return true
}

func fillRect(canvas *image.RGBA, rect image.Rectangle, c color.RGBA) {
	draw.Draw(canvas, rect, &image.Uniform{C: c}, image.Point{}, draw.Src)
}

func drawText(canvas *image.RGBA, face font.Face, c color.RGBA, x, y int, text string) {
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	drawer.DrawString(text)
}

// truncate shortens text so it fits the available width, appending an
// ellipsis when anything was cut.
func truncate(text string, width int, face font.Face) string {
	if font.MeasureString(face, text).Ceil() <= width {
		return text
	}

	runes := []rune(text)
	for len(runes) > 1 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + "…"
		if font.MeasureString(face, candidate).Ceil() <= width {
			return candidate
		}
	}
	return "…"
}
