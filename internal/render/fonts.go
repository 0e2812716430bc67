package render

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/ecacertified-jpg/pixl-parade-page-sub001/pkg/logger"
)

// faces holds the process-wide typefaces, loaded once. Requests render
// concurrently, so the load is guarded against duplicate fetches; a load
// failure degrades to the builtin bitmap font instead of failing requests.
var (
	fontOnce  sync.Once
	titleFace font.Face
	bodyFace  font.Face
)

const (
	titleFontSize = 52
	bodyFontSize  = 30
)

func cardFaces(path string) (font.Face, font.Face) {
	fontOnce.Do(func() {
		titleFace, bodyFace = loadFaces(path)
	})
	return titleFace, bodyFace
}

func loadFaces(path string) (font.Face, font.Face) {
	log := logger.WithModule("render")

	if path == "" {
		return basicfont.Face7x13, basicfont.Face7x13
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("font file unavailable, using builtin face", zap.String("path", path), zap.Error(err))
		return basicfont.Face7x13, basicfont.Face7x13
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		log.Warn("font file unparsable, using builtin face", zap.String("path", path), zap.Error(err))
		return basicfont.Face7x13, basicfont.Face7x13
	}

	title, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: titleFontSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		log.Warn("font face creation failed, using builtin face", zap.Error(err))
		return basicfont.Face7x13, basicfont.Face7x13
	}

	body, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: bodyFontSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return title, basicfont.Face7x13
	}

	return title, body
}
