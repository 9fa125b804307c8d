package service

import (
	"context"
	"errors"
	"time"

	"github.com/erlandv/writenex/internal/compress"
	"github.com/erlandv/writenex/internal/model"
	"github.com/erlandv/writenex/internal/store"
)

// NewImageService creates a new ImageService.
func NewImageService(codec compress.Compress, store store.Store) *ImageService {
	return &ImageService{codec: codec, store: store}
}

// ImageService stores binary attachments referenced from document content.
type ImageService struct {
	codec compress.Compress
	store store.Store
}

// SaveImage persists an image blob and returns its generated id.
func (i *ImageService) SaveImage(ctx context.Context, name, mimeType string, data []byte) (uint, error) {
	encoded, err := i.codec.Encode(data)
	if err != nil {
		return 0, err
	}

	image := &model.Image{
		Name:        name,
		Type:        mimeType,
		Blob:        encoded,
		Compression: i.codec.Name(),
		CreatedAt:   time.Now(),
	}
	if err := i.store.CreateImage(ctx, image); err != nil {
		return 0, err
	}
	return image.ID, nil
}

// GetImage retrieves an image with its blob decoded, ErrImageNotFound
// when absent.
func (i *ImageService) GetImage(ctx context.Context, id uint) (*model.Image, error) {
	image, err := i.store.GetImage(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrImageNotFound
	}
	if err != nil {
		return nil, err
	}

	codec, err := compress.FromName(image.Compression)
	if err != nil {
		return nil, err
	}
	image.Blob, err = codec.Decode(image.Blob)
	if err != nil {
		return nil, err
	}
	return image, nil
}
