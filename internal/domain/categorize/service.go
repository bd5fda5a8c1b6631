package categorize

import (
	"context"
	"math"
	"strings"

	"golang.org/x/text/cases"

	"homebase-go/internal/domain/ledger"
	"homebase-go/pkg/logger"
)

const maxDescriptionRunes = 500

type Config struct {
	MinConfidence float64
}

type Service struct {
	suggester Suggester
	cache     Cache
	cfg       Config
	log       logger.Logger
}

type Option func(*Service)

func WithCache(cache Cache) Option {
	return func(s *Service) {
		if cache != nil {
			s.cache = cache
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService returns a service that never suggests anything when suggester
// is nil.
func NewService(suggester Suggester, cfg Config, opts ...Option) *Service {
	s := &Service{
		suggester: suggester,
		cache:     noopCache{},
		cfg:       cfg,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Enabled() bool {
	return s.suggester != nil
}

// Suggest returns a category for description, or false when there is no
// usable answer. Failures are logged and never returned.
func (s *Service) Suggest(ctx context.Context, description string) (Suggestion, bool) {
	description = cleanDescription(description)
	if description == "" || s.suggester == nil {
		return Suggestion{}, false
	}

	key := cases.Fold().String(description)
	if cached, ok := s.cache.Get(key); ok {
		return cached, true
	}

	raw, err := s.suggester.Suggest(ctx, description, ledger.ExpenseCategories())
	if err != nil {
		s.log.Warn("categorize.suggest: model call failed", "err", err)
		return Suggestion{}, false
	}

	category, ok := ledger.ParseCategory(ledger.TypeExpense, raw.Category)
	if !ok {
		s.log.Warn("categorize.suggest: unknown category in answer", "category", raw.Category)
		return Suggestion{}, false
	}
	if math.IsNaN(raw.Confidence) || raw.Confidence < 0 || raw.Confidence > 1 {
		s.log.Warn("categorize.suggest: confidence out of range", "confidence", raw.Confidence)
		return Suggestion{}, false
	}
	if raw.Confidence < s.cfg.MinConfidence {
		s.log.Debug("categorize.suggest: low confidence answer dropped",
			"category", category, "confidence", raw.Confidence)
		return Suggestion{}, false
	}

	suggestion := Suggestion{Category: category, Confidence: raw.Confidence}
	s.cache.Set(key, suggestion)
	return suggestion, true
}

func cleanDescription(description string) string {
	description = strings.Join(strings.Fields(description), " ")
	runes := []rune(description)
	if len(runes) > maxDescriptionRunes {
		description = string(runes[:maxDescriptionRunes])
	}
	return description
}
