// Package cloudinary wraps the Cloudinary upload API behind the small
// FileStorage surface the services consume.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Service uploads assets (student photos, payment receipts, message
// attachments) to Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// uploadTimeout bounds a single upload round trip so a stalled CDN call
// cannot pin a request handler.
const uploadTimeout = 30 * time.Second

// Upload sends the file to Cloudinary and returns a secure URL.
func (s *Service) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	publicID := buildPublicID(name)

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()

	result, err := s.client.Upload.Upload(uploadCtx, reader, uploader.UploadParams{
		Folder:       strings.Trim(s.folder, "/"),
		PublicID:     publicID,
		ResourceType: "auto",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload asset: %w", err)
	}

	s.logger.Info().
		Str("public_id", result.PublicID).
		Int("bytes", result.Bytes).
		Msg("asset uploaded")

	return result.SecureURL, nil
}

// buildPublicID derives a collision-free identifier from the original
// filename. A random suffix keeps repeated uploads of the same file distinct.
func buildPublicID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = "upload"
	}

	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%s-%s", base, suffix)
}
