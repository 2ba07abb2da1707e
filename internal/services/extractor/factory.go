package extractor

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/smilewatch/internal/common"
	"github.com/ternarybob/smilewatch/internal/interfaces"
)

// NewExtractorService creates the configured extractor implementation
func NewExtractorService(config *common.ExtractorConfig, logger arbor.ILogger) (interfaces.ExtractorService, error) {
	logger.Info().Str("provider", config.Provider).Msg("Initializing extractor service")

	switch config.Provider {
	case "claude":
		return NewClaudeService(&config.Claude, logger)
	case "gemini":
		return NewGeminiService(&config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unsupported extractor provider '%s': must be 'claude' or 'gemini'", config.Provider)
	}
}
