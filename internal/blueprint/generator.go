package blueprint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dhruvat/astra-api/internal/domain"
	"github.com/dhruvat/astra-api/internal/generation"
)

// ErrMissingProfile is returned when blueprint generation is requested for
// a user without a derived astrological profile.
var ErrMissingProfile = errors.New("user has no astrological profile")

// PageSink receives each page's content as it is produced during a full
// blueprint run. Used to persist pages incrementally so a crash mid-run
// loses only the unfinished pages.
type PageSink func(ctx context.Context, page string, content domain.PageContent) error

// Generator produces blueprint page content by prompting the completion
// service and normalizing its output. Generation failures for a page never
// fail the overall call; they degrade to a failed page record.
type Generator struct {
	completions generation.CompletionService
	logger      *slog.Logger
}

// NewGenerator creates a Generator over the given completion service.
func NewGenerator(completions generation.CompletionService, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		completions: completions,
		logger:      logger.With(slog.String("component", "blueprint_generator")),
	}
}

// GeneratePage generates the content for one blueprint page. An unknown
// page or a missing astrological profile is a caller error; completion
// failures are captured as a failed page record and do not return an error.
func (g *Generator) GeneratePage(ctx context.Context, profile *domain.Profile, page string) (domain.PageContent, error) {
	if profile == nil || profile.Astrology == nil {
		return domain.PageContent{}, ErrMissingProfile
	}

	spec, err := buildPrompt(page, profile)
	if err != nil {
		return domain.PageContent{}, err
	}

	result, err := g.completions.GenerateCompletion(ctx, generation.Request{
		Prompt:       spec.Prompt,
		SystemPrompt: spec.SystemPrompt,
		Temperature:  spec.Temperature,
		MaxTokens:    spec.MaxTokens,
	})
	if err != nil {
		g.logger.Error("page generation failed",
			slog.String("page", page),
			slog.String("error", err.Error()))
		return domain.FailedContent(failureMessage(page), err.Error()), nil
	}

	g.logger.Info("page generated",
		slog.String("page", page),
		slog.String("provider", result.Provider),
		slog.Int("total_tokens", result.Usage.TotalTokens))

	return generation.Normalize(result.Content), nil
}

// GenerateAll generates every blueprint page in order and returns the
// assembled content. Pages are generated strictly sequentially; a page that
// fails becomes a failed record and generation continues with the next
// page. When sink is non-nil it is called after each page; a sink error
// aborts the run.
func (g *Generator) GenerateAll(ctx context.Context, profile *domain.Profile, sink PageSink) (domain.BlueprintContent, error) {
	if profile == nil || profile.Astrology == nil {
		return nil, ErrMissingProfile
	}

	content := make(domain.BlueprintContent, len(domain.BlueprintPages))
	for _, page := range domain.BlueprintPages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageContent, err := g.GeneratePage(ctx, profile, page)
		if err != nil {
			return nil, fmt.Errorf("generating page %s: %w", page, err)
		}
		content[page] = pageContent

		if sink != nil {
			if err := sink(ctx, page, pageContent); err != nil {
				return nil, fmt.Errorf("persisting page %s: %w", page, err)
			}
		}
	}

	return content, nil
}

// failureMessage renders the user-facing error string for a failed page,
// e.g. "Failed to generate medical astrology content".
func failureMessage(page string) string {
	return fmt.Sprintf("Failed to generate %s content", strings.ReplaceAll(page, "-", " "))
}
