package catalog

import (
	"github.com/hazelvane/melodex/internal/models"
	"github.com/hazelvane/melodex/internal/services"
)

// resolveImages normalizes raw image descriptors into domain values,
// preserving input order. Absent width/height stay nil rather than becoming
// zero. Empty or nil input yields an empty list.
func resolveImages(raw []services.SpotifyImage) []models.Image {
	images := make([]models.Image, 0, len(raw))
	for _, img := range raw {
		images = append(images, models.Image{
			URL:    img.URL,
			Width:  img.Width,
			Height: img.Height,
		})
	}
	return images
}
