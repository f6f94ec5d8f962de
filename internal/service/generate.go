package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/promptgate/promptgate-go/internal/metrics"
)

var (
	ErrPromptRequired    = errors.New("prompt is required")
	ErrGenerationFailed  = errors.New("text generation failed")
	ErrQuotaUpdateFailed = errors.New("quota update failed")
)

// GenerateService runs prompts through the text generator and charges the
// caller one API call per successful generation. An exhausted quota does not
// block generation; the count stays at zero.
type GenerateService struct {
	generator TextGenerator
	quota     *QuotaService
}

func NewGenerateService(generator TextGenerator, quota *QuotaService) *GenerateService {
	return &GenerateService{generator: generator, quota: quota}
}

// Generate returns the generated text for prompt on behalf of userID.
func (s *GenerateService) Generate(ctx context.Context, userID int64, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrPromptRequired
	}

	start := time.Now()
	text, err := s.generator.Generate(ctx, prompt)
	metrics.GenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GenerationsTotal.WithLabelValues("error").Inc()
		slog.Error("text generation failed", "user_id", userID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	metrics.GenerationsTotal.WithLabelValues("ok").Inc()

	remaining, err := s.quota.Decrement(ctx, userID)
	if err != nil {
		slog.Error("charging api call failed", "user_id", userID, "error", err)
		return "", fmt.Errorf("%w: %w", ErrQuotaUpdateFailed, err)
	}
	slog.Debug("api call charged", "user_id", userID, "remaining", remaining)

	return text, nil
}
