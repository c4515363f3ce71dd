package render

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

var (
	fontOnce   sync.Once
	parsedFont *opentype.Font

	faceMu    sync.Mutex
	faceCache = map[float64]font.Face{}
)

// fontFace returns a Go Regular face at the given point size. Faces are
// cached; sizes repeat heavily across renders (labels, headers, cell text).
func fontFace(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			// goregular.TTF is embedded and known-good; a parse failure
			// means a broken toolchain, not bad input.
			panic(err)
		}
		parsedFont = f
	})

	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[size]; ok {
		return face
	}
	face, err := opentype.NewFace(parsedFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(err)
	}
	faceCache[size] = face
	return face
}
