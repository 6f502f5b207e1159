package submission

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"alfredoptarigan/resume-screener/internal/models"
)

// OpenFiles builds file handles for the given paths. The declared media type
// follows the file extension; the sniffed content type is recorded alongside
// it. The order of paths is preserved.
func OpenFiles(paths ...string) ([]models.ResumeFile, error) {
	files := make([]models.ResumeFile, 0, len(paths))
	for _, path := range paths {
		sniffed, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		files = append(files, models.ResumeFile{
			Name:        filepath.Base(path),
			MediaType:   declaredType(path),
			ContentType: stripParams(sniffed.String()),
			Path:        path,
		})
	}
	return files, nil
}

// declaredType is the media type registered for the extension, or empty.
func declaredType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	return stripParams(mime.TypeByExtension(ext))
}

func stripParams(mt string) string {
	mt, _, _ = strings.Cut(mt, ";")
	return strings.TrimSpace(mt)
}

// typeLabel names the accepted type in user-facing messages, e.g. "PDF".
func typeLabel(acceptedType string) string {
	if m := mimetype.Lookup(acceptedType); m != nil && m.Extension() != "" {
		return strings.ToUpper(strings.TrimPrefix(m.Extension(), "."))
	}
	return acceptedType
}
