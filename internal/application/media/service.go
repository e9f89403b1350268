// Package media handles listing image uploads: the image goes to the
// marketplace picture host, and a staged copy is kept in the backend's
// own object storage so previews survive upstream deletion.
package media

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/infrastructure/storage"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
)

// MaxImageBytes caps accepted image uploads.
const MaxImageBytes = 10 << 20 // 10MB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Service drives picture uploads and lookups.
type Service struct {
	market seller.Marketplace
	images storage.ImageStore
	logger *zap.Logger
}

// NewService creates a media service. images may be nil when staging
// is disabled.
func NewService(market seller.Marketplace, images storage.ImageStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{market: market, images: images, logger: logger}
}

// Upload pushes an image to the marketplace and stages a copy. The
// marketplace upload is authoritative; a staging failure is logged and
// the upload still succeeds.
func (s *Service) Upload(ctx context.Context, data []byte, contentType string) (*seller.Picture, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "media", "upload",
		telemetry.WithAttribute("content_type", contentType),
		telemetry.WithAttribute("size_bytes", len(data)))
	defer span.End()

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image upload", seller.ErrUpstreamRejected)
	}
	if len(data) > MaxImageBytes {
		return nil, fmt.Errorf("%w: image exceeds %d bytes", seller.ErrUpstreamRejected, MaxImageBytes)
	}
	if !allowedImageTypes[contentType] {
		return nil, fmt.Errorf("%w: unsupported content type %q", seller.ErrUpstreamRejected, contentType)
	}

	picture, err := s.market.UploadPicture(ctx, data, contentType)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.images != nil {
		key := stagingKey(picture.ID)
		if err := s.images.Put(ctx, key, data, contentType); err != nil {
			s.logger.Warn("image staging failed",
				zap.String("picture_id", picture.ID),
				zap.Error(err))
		} else if url, _, err := s.images.PresignGet(ctx, key); err == nil {
			picture.StagedURL = url
		}
	}

	s.logger.Info("picture uploaded",
		zap.String("picture_id", picture.ID),
		zap.Int("size_bytes", len(data)))
	return picture, nil
}

// Get returns a hosted picture's metadata, with a staged download URL
// attached when a staged copy exists.
func (s *Service) Get(ctx context.Context, id string) (*seller.Picture, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "media", "get")
	defer span.End()

	picture, err := s.market.Picture(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.images != nil {
		key := stagingKey(id)
		if ok, err := s.images.Exists(ctx, key); err == nil && ok {
			if url, _, err := s.images.PresignGet(ctx, key); err == nil {
				picture.StagedURL = url
			}
		}
	}

	return picture, nil
}

// stagingKey maps a marketplace picture id to its object storage key.
func stagingKey(pictureID string) string {
	return "pictures/" + pictureID
}
