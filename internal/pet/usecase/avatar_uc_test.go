package usecase

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"regexp"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/petes-emporium/pet-store/internal/pet/domain"
)

var baseKeyPattern = regexp.MustCompile(`^pets/avatar/[A-Za-z0-9]+-\d+$`)

func TestProcess_RejectsNonImage(t *testing.T) {
	uc := NewAvatarUsecase(newFakeStorage(), zap.NewNop())

	_, err := uc.Process(context.Background(), "", []byte("definitely not an image, just some plain text bytes"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedMediaType)
}

func TestProcess_RejectsOversizedUpload(t *testing.T) {
	uc := NewAvatarUsecase(newFakeStorage(), zap.NewNop())

	_, err := uc.Process(context.Background(), "", make([]byte, MaxAvatarBytes+1))
	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
}

func TestProcess_StoresBothVariants(t *testing.T) {
	storage := newFakeStorage()
	uc := NewAvatarUsecase(storage, zap.NewNop())

	res, err := uc.Process(context.Background(), "abc123", testJPEG(t, 800, 600))
	require.NoError(t, err)

	assert.Regexp(t, baseKeyPattern, res.BaseKey)
	assert.Contains(t, res.BaseKey, "pets/avatar/abc123-")
	require.Contains(t, storage.uploads, res.BaseKey+"-standard.jpg")
	require.Contains(t, storage.uploads, res.BaseKey+"-square.jpg")
	assert.Contains(t, res.StandardURL, res.BaseKey+"-standard.jpg")
	assert.Contains(t, res.SquareURL, res.BaseKey+"-square.jpg")

	std, err := imaging.Decode(bytes.NewReader(storage.uploads[res.BaseKey+"-standard.jpg"]))
	require.NoError(t, err)
	assert.LessOrEqual(t, std.Bounds().Dx(), 400)
	assert.LessOrEqual(t, std.Bounds().Dy(), 250)

	sq, err := imaging.Decode(bytes.NewReader(storage.uploads[res.BaseKey+"-square.jpg"]))
	require.NoError(t, err)
	assert.LessOrEqual(t, sq.Bounds().Dx(), 300)
	assert.LessOrEqual(t, sq.Bounds().Dy(), 300)
}

func TestProcess_RandomBaseKeyWithoutOwner(t *testing.T) {
	uc := NewAvatarUsecase(newFakeStorage(), zap.NewNop())

	res, err := uc.Process(context.Background(), "", testJPEG(t, 100, 100))
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^pets/avatar/[0-9a-f-]{36}-\d+$`), res.BaseKey)
}

func TestProcess_FallbackKeysNeverCollide(t *testing.T) {
	storage := newFakeStorage()
	uc := NewAvatarUsecase(storage, zap.NewNop())
	// Pin the clock: two uploads in the same millisecond must still get
	// distinct keys.
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	first, err := uc.Process(context.Background(), "", testJPEG(t, 100, 100))
	require.NoError(t, err)
	second, err := uc.Process(context.Background(), "", testJPEG(t, 100, 100))
	require.NoError(t, err)

	assert.NotEqual(t, first.BaseKey, second.BaseKey)
	assert.Len(t, storage.uploads, 4)
}

func TestProcess_NeverUpscalesSmallSources(t *testing.T) {
	storage := newFakeStorage()
	uc := NewAvatarUsecase(storage, zap.NewNop())

	res, err := uc.Process(context.Background(), "tiny", testJPEG(t, 120, 80))
	require.NoError(t, err)

	std, err := imaging.Decode(bytes.NewReader(storage.uploads[res.BaseKey+"-standard.jpg"]))
	require.NoError(t, err)
	assert.Equal(t, 120, std.Bounds().Dx())
	assert.Equal(t, 80, std.Bounds().Dy())
}

func TestProcess_AcceptsPNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 640, 480))))

	storage := newFakeStorage()
	uc := NewAvatarUsecase(storage, zap.NewNop())

	res, err := uc.Process(context.Background(), "p1", buf.Bytes())
	require.NoError(t, err)
	// Variants are always re-encoded as JPEG.
	assert.Contains(t, storage.uploads, res.BaseKey+"-standard.jpg")
}
