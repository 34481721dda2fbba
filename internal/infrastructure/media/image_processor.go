// Package media provides image processing for dish photo uploads.
package media

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// thumbnailWidths are the WebP renditions generated for every upload.
var thumbnailWidths = []int{1200, 600, 300}

// ImageProcessor handles dish photo uploads under a media base path.
type ImageProcessor struct {
	basePath string
}

// NewImageProcessor creates a new ImageProcessor instance.
func NewImageProcessor(basePath string) *ImageProcessor {
	return &ImageProcessor{
		basePath: basePath,
	}
}

// ProcessDishImage stores a base64 dish photo and generates WebP thumbnails.
// The original lands in images/dishes/, thumbnails in images/thumbs/.
// Returns the original's relative URL path and the thumbnail paths.
func (p *ImageProcessor) ProcessDishImage(data, imageID string) (string, []string, error) {
	if data == "" {
		return "", nil, fmt.Errorf("empty base64 data")
	}

	ext := extractExtension(data)
	if ext == "" {
		return "", nil, fmt.Errorf("unsupported image format")
	}

	timestamp := time.Now().UnixMilli()
	filename := fmt.Sprintf("%s-%d.%s", imageID, timestamp, ext)

	dishDir := filepath.Join(p.basePath, "images", "dishes")
	thumbsDir := filepath.Join(p.basePath, "images", "thumbs")

	if err := os.MkdirAll(dishDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create dishes directory: %w", err)
	}
	if err := os.MkdirAll(thumbsDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create thumbs directory: %w", err)
	}

	var originalPath string
	var err error
	if strings.Contains(data, "image/svg+xml") {
		originalPath, err = processSVG(data, filename, dishDir)
	} else {
		originalPath, err = processBinaryImage(data, filename, dishDir)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to save original image: %w", err)
	}

	// SVG uploads render at any size; no raster thumbnails are generated.
	if ext == "svg" {
		return fmt.Sprintf("/media/images/dishes/%s", filename), nil, nil
	}

	thumbnailPaths, err := p.generateWebPThumbnails(originalPath, imageID, timestamp, thumbsDir)
	if err != nil {
		os.Remove(originalPath)
		return "", nil, fmt.Errorf("failed to generate thumbnails: %w", err)
	}

	relativeOriginal := fmt.Sprintf("/media/images/dishes/%s", filename)
	relativeThumbnails := make([]string, len(thumbnailPaths))
	for i, thumbPath := range thumbnailPaths {
		relativeThumbnails[i] = fmt.Sprintf("/media/images/thumbs/%s", filepath.Base(thumbPath))
	}

	return relativeOriginal, relativeThumbnails, nil
}

// generateWebPThumbnails creates the WebP renditions for an uploaded image.
func (p *ImageProcessor) generateWebPThumbnails(originalPath, imageID string, timestamp int64, thumbsDir string) ([]string, error) {
	originalFile, err := os.Open(originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open original file: %w", err)
	}
	defer originalFile.Close()

	img, err := imaging.Decode(originalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	basename := fmt.Sprintf("%s-%d", imageID, timestamp)
	thumbnailPaths := make([]string, len(thumbnailWidths))

	for i, width := range thumbnailWidths {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)

		thumbFilename := fmt.Sprintf("%s_%dpx.webp", basename, width)
		thumbPath := filepath.Join(thumbsDir, thumbFilename)

		// webp.Save, not imaging.Save; imaging has no WebP encoder.
		if err := webp.Save(thumbPath, resized, &webp.Options{Quality: 85}); err != nil {
			for j := range i {
				os.Remove(thumbnailPaths[j])
			}
			return nil, fmt.Errorf("failed to save WebP thumbnail %s: %w", thumbFilename, err)
		}

		thumbnailPaths[i] = thumbPath
	}

	return thumbnailPaths, nil
}

// processSVG handles SVG-specific base64 processing
func processSVG(data, filename, targetDir string) (string, error) {
	svgPattern := regexp.MustCompile(`^data:image/svg\+xml;base64,`)
	if !svgPattern.MatchString(data) {
		return "", fmt.Errorf("invalid SVG base64 format")
	}

	b64Data := svgPattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write SVG file: %w", err)
	}

	return fullPath, nil
}

// processBinaryImage handles binary image processing (PNG, JPG, WebP)
func processBinaryImage(data, filename, targetDir string) (string, error) {
	binaryPattern := regexp.MustCompile(`^data:image/\w+;base64,`)
	if !binaryPattern.MatchString(data) {
		return "", fmt.Errorf("invalid binary image base64 format")
	}

	b64Data := binaryPattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(b64Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode base64: %w", err)
	}

	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, decoded, 0644); err != nil {
		return "", fmt.Errorf("failed to write binary file: %w", err)
	}

	return fullPath, nil
}

// extractExtension auto-detects file extension from MIME type
func extractExtension(data string) string {
	switch {
	case strings.Contains(data, "data:image/svg+xml"):
		return "svg"
	case strings.Contains(data, "data:image/png"):
		return "png"
	case strings.Contains(data, "data:image/jpeg"), strings.Contains(data, "data:image/jpg"):
		return "jpg"
	case strings.Contains(data, "data:image/webp"):
		return "webp"
	}
	return ""
}
