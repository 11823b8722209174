package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aneezakiran07/foodmaps/internal/domain"
	"github.com/Aneezakiran07/foodmaps/internal/event"
	"github.com/Aneezakiran07/foodmaps/internal/repository"
	"github.com/Aneezakiran07/foodmaps/internal/storage"
	apperrors "github.com/Aneezakiran07/foodmaps/pkg/errors"
)

// sniffLen is how many leading bytes are read to detect the image format.
const sniffLen = 16

// UploadMediaInput holds the parameters for uploading an image.
type UploadMediaInput struct {
	OwnerID      string
	OwnerType    string
	OriginalName string
	ContentType  string
	Size         int64
	Data         io.Reader
}

// MediaService validates and stores image uploads, keeping a ledger row per
// stored asset so the backing file can be purged later.
type MediaService struct {
	media    repository.MediaRepository
	storage  storage.Storage
	producer *event.Producer
	logger   *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(
	media repository.MediaRepository,
	store storage.Storage,
	producer *event.Producer,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		media:    media,
		storage:  store,
		producer: producer,
		logger:   logger,
	}
}

// Upload validates the file and stores it. The declared content type is not
// trusted; the leading bytes must carry the magic signature of an allowed
// image format.
func (s *MediaService) Upload(ctx context.Context, input *UploadMediaInput) (*domain.MediaFile, error) {
	if input.OwnerID == "" {
		return nil, apperrors.InvalidInput("owner_id is required")
	}
	if !domain.IsValidOwnerType(input.OwnerType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("owner_type must be one of %s", strings.Join(domain.ValidOwnerTypes(), ", ")))
	}
	if input.Size <= 0 {
		return nil, apperrors.InvalidInput("file is empty")
	}
	if input.Size > domain.MaxFileSize {
		return nil, apperrors.InvalidInput(fmt.Sprintf("file exceeds maximum size of %d bytes", domain.MaxFileSize))
	}
	if !domain.IsAllowedContentType(input.ContentType) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("content type %q is not allowed", input.ContentType))
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(input.Data, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	head = head[:n]

	sniffed := domain.SniffImageType(head)
	if sniffed == "" || sniffed != input.ContentType {
		return nil, apperrors.InvalidInput("file content does not match an allowed image format")
	}

	id := uuid.New().String()
	key := s.objectKey(input.OwnerType, id, input.OriginalName)

	result, err := s.storage.Upload(ctx, &storage.UploadInput{
		Key:         key,
		ContentType: input.ContentType,
		Size:        input.Size,
		Data:        io.MultiReader(bytes.NewReader(head), input.Data),
	})
	if err != nil {
		return nil, fmt.Errorf("upload file: %w", err)
	}

	now := time.Now().UTC()
	media := &domain.MediaFile{
		ID:           id,
		OwnerID:      input.OwnerID,
		OwnerType:    input.OwnerType,
		FileName:     result.Key,
		OriginalName: input.OriginalName,
		ContentType:  input.ContentType,
		Size:         input.Size,
		URL:          result.URL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.media.Create(ctx, media); err != nil {
		// The asset is already stored; try to avoid leaving an orphan.
		if delErr := s.storage.Delete(ctx, result.Key); delErr != nil {
			s.logger.ErrorContext(ctx, "failed to clean up orphaned upload",
				slog.String("key", result.Key),
				slog.String("error", delErr.Error()),
			)
		}
		return nil, fmt.Errorf("record upload: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishMediaUploaded(ctx, media); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish media.uploaded event",
				slog.String("media_id", media.ID),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "media uploaded",
		slog.String("media_id", media.ID),
		slog.String("owner_type", media.OwnerType),
		slog.Int64("size", media.Size),
	)

	return media, nil
}

// GetMedia returns a ledger entry by ID. Rows written before the URL column
// was backfilled carry an empty URL, so it is re-derived from the stored key.
func (s *MediaService) GetMedia(ctx context.Context, id string) (*domain.MediaFile, error) {
	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if media.URL == "" {
		url, err := s.storage.GetURL(ctx, media.FileName)
		if err != nil {
			return nil, fmt.Errorf("resolve media url: %w", err)
		}
		media.URL = url
	}

	return media, nil
}

// Delete removes the stored asset and its ledger row.
func (s *MediaService) Delete(ctx context.Context, id string) error {
	media, err := s.media.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, media.FileName); err != nil {
		return fmt.Errorf("delete stored file: %w", err)
	}

	if err := s.media.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete media record: %w", err)
	}

	if s.producer != nil {
		if err := s.producer.PublishMediaDeleted(ctx, id); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish media.deleted event",
				slog.String("media_id", id),
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "media deleted",
		slog.String("media_id", id),
	)

	return nil
}

// objectKey builds a collision-free storage key that keeps the original
// extension for CDN content negotiation.
func (s *MediaService) objectKey(ownerType, id, originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s/%s%s", ownerType, id, ext)
}
