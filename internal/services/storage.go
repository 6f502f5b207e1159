package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StoredResume is an uploaded resume saved under a collision free name. Name
// is the filename the client sent and is what results are reported under.
type StoredResume struct {
	Name string
	Path string
	Size int64
}

type StorageService interface {
	SaveResume(file *multipart.FileHeader) (*StoredResume, error)
	Delete(resume *StoredResume) error
	EnsureUploadDir() error
}

type storageService struct {
	uploadPath string
}

func NewStorageService(uploadPath string) StorageService {
	return &storageService{
		uploadPath: uploadPath,
	}
}

func (s *storageService) EnsureUploadDir() error {
	if err := os.MkdirAll(s.uploadPath, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func (s *storageService) SaveResume(file *multipart.FileHeader) (*StoredResume, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".pdf" {
		return nil, fmt.Errorf("invalid file extension: %q", ext)
	}

	path := filepath.Join(s.uploadPath, fmt.Sprintf("resume_%s%s", uuid.New().String(), ext))

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	size, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StoredResume{
		Name: filepath.Base(file.Filename),
		Path: path,
		Size: size,
	}, nil
}

func (s *storageService) Delete(resume *StoredResume) error {
	if err := os.Remove(resume.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}
