package gallery

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/nekogravitycat/studio-booking-backend/internal/pkg/storage"
	"github.com/nekogravitycat/studio-booking-backend/internal/resource"
)

// AllowedTypes are the image types accepted for upload.
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

type UploadInput struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

type Service interface {
	Upload(ctx context.Context, resourceID string, in UploadInput) (*Photo, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Photo, error)
	Get(ctx context.Context, id string) (*Photo, error)
	Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo         Repository
	storage      storage.Storage
	imgProc      *storage.ImageProcessor
	resService   resource.Service
	maxSizeBytes int64
}

func NewService(repo Repository, store storage.Storage, resService resource.Service, maxSizeBytes int64) Service {
	return &service{
		repo:         repo,
		storage:      store,
		imgProc:      storage.NewImageProcessor(200),
		resService:   resService,
		maxSizeBytes: maxSizeBytes,
	}
}

func (s *service) Upload(ctx context.Context, resourceID string, in UploadInput) (*Photo, error) {
	if !slices.Contains(AllowedTypes, in.ContentType) {
		return nil, ErrUnsupportedType
	}
	if _, err := s.resService.GetByID(ctx, resourceID); err != nil {
		return nil, err
	}

	// One byte past the limit is enough to tell the upload is too large.
	content, err := io.ReadAll(io.LimitReader(in.Content, s.maxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(content)) > s.maxSizeBytes {
		return nil, ErrTooLarge
	}

	thumb, err := s.imgProc.Thumbnail(bytes.NewReader(content))
	if err != nil {
		return nil, ErrUnsupportedType
	}

	id := uuid.NewString()
	// Sharding path: photos/ab/UUID.ext
	shard := id[:2]
	p := &Photo{
		ID:          id,
		ResourceID:  resourceID,
		Filename:    filepath.Base(in.Filename),
		StoragePath: fmt.Sprintf("photos/%s/%s%s", shard, id, strings.ToLower(filepath.Ext(in.Filename))),
		ContentType: in.ContentType,
		Size:        int64(len(content)),
	}

	if err := s.storage.Save(ctx, p.StoragePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save photo: %w", err)
	}

	thumbPath := fmt.Sprintf("photos/%s/%s_thumb.jpg", shard, id)
	if err := s.storage.Save(ctx, thumbPath, bytes.NewReader(thumb)); err != nil {
		log.Printf("failed to save thumbnail for photo %s: %v", id, err)
	} else {
		p.ThumbnailPath = &thumbPath
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.removeFiles(ctx, p)
		return nil, err
	}
	return p, nil
}

func (s *service) ListByResource(ctx context.Context, resourceID string) ([]*Photo, error) {
	return s.repo.ListByResource(ctx, resourceID)
}

func (s *service) Get(ctx context.Context, id string) (*Photo, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Download(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.storage.Get(ctx, p.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve photo from storage: %w", err)
	}
	return stream, p, nil
}

func (s *service) DownloadThumbnail(ctx context.Context, id string) (io.ReadCloser, *Photo, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if p.ThumbnailPath == nil {
		return nil, nil, ErrNoThumbnail
	}

	stream, err := s.storage.Get(ctx, *p.ThumbnailPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}
	return stream, p, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeFiles(ctx, p)
	return nil
}

// removeFiles is best effort.
func (s *service) removeFiles(ctx context.Context, p *Photo) {
	if err := s.storage.Delete(ctx, p.StoragePath); err != nil {
		log.Printf("failed to delete photo file %s: %v", p.StoragePath, err)
	}
	if p.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *p.ThumbnailPath); err != nil {
			log.Printf("failed to delete thumbnail %s: %v", *p.ThumbnailPath, err)
		}
	}
}
