package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	// ErrUploadTooLarge indicates the payload exceeded the configured limit.
	ErrUploadTooLarge = errors.New("file exceeds maximum allowed size")
	// ErrUploadTypeNotAllowed indicates the MIME type is not permitted.
	ErrUploadTypeNotAllowed = errors.New("file type not allowed")
	// ErrUploadStorageUnavailable indicates no upload backend is configured.
	ErrUploadStorageUnavailable = errors.New("upload storage not configured")
)

// FileStorage abstracts upload destinations.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// MediaService validates and stores uploaded assets: student photos, payment
// receipts and message attachments. Only raster images and PDFs pass.
type MediaService interface {
	Store(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type mediaService struct {
	storage FileStorage
	maxSize int64
	logger  zerolog.Logger
	tracer  trace.Tracer
}

// NewMediaService constructs a media service.
func NewMediaService(storage FileStorage, maxSizeMB int, logger zerolog.Logger) MediaService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &mediaService{
		storage: storage,
		maxSize: int64(maxSizeMB) * 1024 * 1024,
		logger:  logger.With().Str("component", "media_service").Logger(),
		tracer:  otel.Tracer("github.com/noah-isme/edudesk-api/internal/service/media"),
	}
}

func (s *mediaService) Store(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ctx, span := s.tracer.Start(ctx, "media.store")
	defer span.End()

	if s.storage == nil {
		return "", ErrUploadStorageUnavailable
	}

	if file == nil {
		err := errors.New("file is required")
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return "", err
	}

	span.SetAttributes(
		attribute.String("media.original_name", strings.TrimSpace(file.Filename)),
		attribute.Int64("media.request_size", file.Size),
	)

	if file.Size > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return "", ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "open failed")
		return "", err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "read failed")
		return "", err
	}
	if int64(buf.Len()) > s.maxSize {
		span.RecordError(ErrUploadTooLarge)
		span.SetStatus(codes.Error, "payload too large")
		return "", ErrUploadTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	detected := normalizeMime(mime.String())
	span.SetAttributes(attribute.String("media.detected_mime", detected))
	if !allowedMediaType(detected) {
		span.RecordError(ErrUploadTypeNotAllowed)
		span.SetStatus(codes.Error, "type not allowed")
		return "", ErrUploadTypeNotAllowed
	}

	url, err := s.storage.Upload(ctx, sanitizeFileName(file.Filename), bytes.NewReader(buf.Bytes()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "storage failed")
		return "", err
	}

	s.logger.Info().
		Str("mime", detected).
		Int("size_bytes", buf.Len()).
		Msg("media stored")

	return url, nil
}

func normalizeMime(raw string) string {
	if idx := strings.Index(raw, ";"); idx >= 0 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(strings.ToLower(raw))
}

func allowedMediaType(mime string) bool {
	switch mime {
	case "image/jpeg", "image/png", "image/webp", "application/pdf":
		return true
	default:
		return false
	}
}

func sanitizeFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	if name == "" || name == "." {
		return "upload"
	}

	return name
}
