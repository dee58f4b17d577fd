// Package icons resolves social platform keys to icon assets.
package icons

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"newsview/config"
	"newsview/utils/images"
)

// Platforms is the closed set of supported platforms in display order.
var Platforms = []string{"whatsapp", "instagram", "facebook", "twitter"}

// Known reports whether platform belongs to the supported set.
func Known(platform string) bool {
	return slices.Contains(Platforms, platform)
}

// Set maps supported platforms to asset references (URLs or data URIs).
type Set struct {
	assets map[string]string
}

// NewSet creates icon set from platform to asset mapping. Platforms outside
// of the supported set are dropped.
func NewSet(assets map[string]string) *Set {
	s := &Set{assets: make(map[string]string, len(Platforms))}
	for k, v := range assets {
		if Known(k) && v != "" {
			s.assets[k] = v
		}
	}
	return s
}

// Asset returns asset reference for platform.
func (s *Set) Asset(platform string) (string, bool) {
	if s == nil {
		return "", false
	}
	a, ok := s.assets[platform]
	return a, ok
}

// Load prepares icon set according to configuration. When embedding is
// requested every asset which is a local file is read, scaled to configured
// size and inlined as PNG data URI. Remote references are kept as is.
func Load(cfg *config.IconsConfig, log *zap.Logger) (*Set, error) {
	if !cfg.Embed {
		return NewSet(cfg.Assets), nil
	}

	inlined := make(map[string]string, len(cfg.Assets))
	for _, platform := range Platforms {
		ref, ok := cfg.Assets[platform]
		if !ok || ref == "" {
			continue
		}
		if isRemote(ref) {
			log.Debug("Icon asset is remote, not embedding", zap.String("platform", platform), zap.String("asset", ref))
			inlined[platform] = ref
			continue
		}
		data, err := os.ReadFile(filepath.FromSlash(ref))
		if err != nil {
			return nil, fmt.Errorf("unable to read icon for %s: %w", platform, err)
		}
		uri, err := DataURI(data, cfg.Size)
		if err != nil {
			return nil, fmt.Errorf("unable to embed icon for %s (%s): %w", platform, ref, err)
		}
		log.Debug("Icon embedded", zap.String("platform", platform), zap.String("asset", ref), zap.Int("bytes", len(uri)))
		inlined[platform] = uri
	}
	return NewSet(inlined), nil
}

// DataURI converts image data to PNG data URI fitting into size x size box.
// SVG is rasterized, raster formats are decoded and resized.
func DataURI(data []byte, size int) (string, error) {
	var (
		img image.Image
		err error
	)
	switch {
	case isSVG(data):
		img, err = images.RasterizeSVGToImage(data, size, size)
	case filetype.IsImage(data):
		img, err = imaging.Decode(bytes.NewReader(data))
		if err == nil && (img.Bounds().Dx() > size || img.Bounds().Dy() > size) {
			img = imaging.Fit(img, size, size, imaging.Lanczos)
		}
	default:
		kind, _ := filetype.Match(data)
		return "", fmt.Errorf("unsupported icon format: %s", kindName(kind.MIME.Value))
	}
	if err != nil {
		return "", err
	}

	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") || strings.HasPrefix(ref, "data:")
}

func isSVG(data []byte) bool {
	head := data[:min(len(data), 512)]
	return bytes.Contains(head, []byte("<svg"))
}

func kindName(mime string) string {
	if mime == "" {
		return "unknown"
	}
	return mime
}
