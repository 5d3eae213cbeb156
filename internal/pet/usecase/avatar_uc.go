package usecase

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

// MaxAvatarBytes caps uploaded avatars at 5 MiB, matching the upload
// middleware limit the storefront has always had.
const MaxAvatarBytes = 5 << 20

const jpegQuality = 80

// Bounding boxes for the two variants. Images are fit inside, never
// upscaled past their source dimensions.
var (
	standardBounds = [2]int{400, 250}
	squareBounds   = [2]int{300, 300}
)

var avatarTracer = otel.Tracer("pet-store/avatar")

// AvatarResult is the outcome of processing one upload: the canonical base
// key plus the public URLs of both stored variants.
type AvatarResult struct {
	BaseKey     string
	StandardURL string
	SquareURL   string
}

type AvatarUsecase struct {
	storage domain.Storage
	logger  *zap.Logger
	now     func() time.Time
}

func NewAvatarUsecase(storage domain.Storage, logger *zap.Logger) *AvatarUsecase {
	return &AvatarUsecase{storage: storage, logger: logger, now: time.Now}
}

// Process validates the raw upload, derives the standard and square JPEG
// variants and uploads both. ownerID keys the objects; when empty (listing
// not yet created) a timestamp stands in. Any failure aborts the whole
// operation so a listing never ends up with a partial variant set.
func (uc *AvatarUsecase) Process(ctx context.Context, ownerID string, data []byte) (*AvatarResult, error) {
	ctx, span := avatarTracer.Start(ctx, "avatar.process")
	defer span.End()
	span.SetAttributes(attribute.Int("avatar.size_bytes", len(data)))

	if len(data) > MaxAvatarBytes {
		return nil, domain.ErrPayloadTooLarge
	}
	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, domain.ErrUnsupportedMediaType
	}

	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}

	now := uc.now()
	owner := ownerID
	if owner == "" {
		// No listing ID yet; a random component keeps concurrent
		// uploads in the same millisecond apart.
		owner = uuid.NewString()
	}
	baseKey := fmt.Sprintf("pets/avatar/%s-%d", owner, now.UnixMilli())

	variants := []struct {
		name   domain.Variant
		bounds [2]int
	}{
		{domain.VariantStandard, standardBounds},
		{domain.VariantSquare, squareBounds},
	}

	res := &AvatarResult{BaseKey: baseKey}
	for _, v := range variants {
		// Fit scales down to the bounding box and leaves smaller
		// sources untouched.
		resized := imaging.Fit(src, v.bounds[0], v.bounds[1], imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
			return nil, fmt.Errorf("encode %s variant: %w", v.name, err)
		}

		key := domain.VariantKey(baseKey, v.name)
		if err := uc.storage.Upload(ctx, key, buf.Bytes(), "image/jpeg"); err != nil {
			uc.logger.Error("avatar variant upload failed", zap.String("key", key), zap.Error(err))
			return nil, fmt.Errorf("upload %s variant: %w", v.name, err)
		}

		url := uc.storage.URL(key)
		switch v.name {
		case domain.VariantStandard:
			res.StandardURL = url
		case domain.VariantSquare:
			res.SquareURL = url
		}
	}

	uc.logger.Info("avatar variants stored",
		zap.String("base_key", baseKey),
		zap.String("content_type", contentType))
	return res, nil
}
