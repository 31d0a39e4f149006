// Package scanner turns a captured product photo into a form-fill
// suggestion through the barcode identification endpoint. Captures are
// exclusive: a second capture started while one is in flight is
// rejected rather than queued.
package scanner

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/larder-dev/larder/internal/model"
)

// Capture error taxonomy.
var (
	// ErrCaptureBusy means another capture session is already active.
	ErrCaptureBusy = errors.New("a capture session is already active")
	// ErrUnreadableImage means the image file could not be read or is not
	// a supported image format.
	ErrUnreadableImage = errors.New("image file is missing or not a supported image")
)

// maxImageBytes bounds the upload; the backend rejects anything bigger.
const maxImageBytes = 10 << 20

// Identifier resolves a captured frame into product suggestions.
type Identifier interface {
	IdentifyBarcode(ctx context.Context, imageBase64 string) (*model.BarcodeResult, error)
}

// Scanner runs exclusive capture sessions.
type Scanner struct {
	identifier Identifier
	busy       atomic.Bool
}

// New creates a scanner backed by the given identifier.
func New(identifier Identifier) *Scanner {
	return &Scanner{identifier: identifier}
}

// IdentifyFile reads an image from disk and submits it for
// identification. The capture lock is released on every exit path.
func (s *Scanner) IdentifyFile(ctx context.Context, path string) (*model.BarcodeResult, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrCaptureBusy
	}
	defer s.busy.Store(false)

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Debug("failed to read capture file", "path", path, "error", err)
		return nil, fmt.Errorf("%w: %s", ErrUnreadableImage, path)
	}

	if len(data) == 0 || len(data) > maxImageBytes {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableImage, path)
	}

	if !looksLikeImage(data) {
		return nil, fmt.Errorf("%w: %s", ErrUnreadableImage, path)
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	result, err := s.identifier.IdentifyBarcode(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to identify product: %w", err)
	}

	return result, nil
}

// Busy reports whether a capture session is in flight.
func (s *Scanner) Busy() bool {
	return s.busy.Load()
}

// looksLikeImage sniffs JPEG, PNG and WebP magic bytes.
func looksLikeImage(data []byte) bool {
	if len(data) < 12 {
		return false
	}

	switch {
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return true // JPEG
	case data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G':
		return true // PNG
	case string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP":
		return true
	}
	return false
}

// Suggestion maps an identification result onto a draft item, filling
// only the fields the backend actually recognized.
func Suggestion(result *model.BarcodeResult) (model.ItemDraft, bool) {
	if result == nil || !result.Success {
		return model.ItemDraft{}, false
	}

	draft := model.ItemDraft{
		Name:    result.ProductName,
		Barcode: result.Barcode,
	}
	if result.SuggestedUnit != "" {
		draft.Unit = result.SuggestedUnit
	}
	return draft, draft.Name != ""
}
