package assetstore

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Well-known target paths inside the object store.
const (
	PathCVs             = "cvs"
	PathProfilePictures = "profile-pictures"
)

// Uploader stages a single binary asset in the remote object store and
// returns a stable public reference. Implementations never retry on their
// own: a failed upload surfaces to the caller, who decides whether to issue
// a fresh Upload call.
type Uploader interface {
	Upload(ctx context.Context, data []byte, fileName, contentType, targetPath string) (string, error)
}

var cvContentTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
}

var pictureContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

const (
	maxCVSize      = 10 * 1024 * 1024 // 10MB
	maxPictureSize = 5 * 1024 * 1024  // 5MB
)

// ValidateCV checks content type and size limits for a CV document
func ValidateCV(contentType string, size int) error {
	if !cvContentTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: pdf, doc, docx", contentType)
	}
	if size > maxCVSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", size, maxCVSize)
	}
	return nil
}

// ValidatePicture checks content type and size limits for a profile picture
func ValidatePicture(contentType string, size int) error {
	if !pictureContentTypes[strings.ToLower(contentType)] {
		return fmt.Errorf("invalid file type: %s. Allowed types: jpeg, jpg, png, webp", contentType)
	}
	if size > maxPictureSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", size, maxPictureSize)
	}
	return nil
}

// GenerateFileName builds a collision-free object name preserving the
// original extension.
func GenerateFileName(originalFileName string) string {
	ext := strings.ToLower(filepath.Ext(originalFileName))
	return fmt.Sprintf("%s%s", uuid.NewString(), ext)
}
