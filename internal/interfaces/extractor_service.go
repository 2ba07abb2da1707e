package interfaces

import (
	"context"

	"github.com/ternarybob/smilewatch/internal/models"
)

// ExtractorService turns free post text into a structured signal record via
// an LLM completion endpoint. Implementations must return a normalized
// record; absent fields default to unclear/neutral rather than failing.
type ExtractorService interface {
	Extract(ctx context.Context, text string) (*models.StructuredSignal, error)

	// ProviderName identifies the backing provider ("claude", "gemini")
	ProviderName() string
}
