// Package catalog implements category prediction and lookup for the
// listing editor.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sellerbridge/backend/internal/domain/seller"
	"github.com/sellerbridge/backend/internal/infrastructure/telemetry"
)

// Service drives category reads.
type Service struct {
	market seller.Marketplace
	logger *zap.Logger
}

// NewService creates a catalog service.
func NewService(market seller.Marketplace, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{market: market, logger: logger}
}

// Predict returns the marketplace's best category for a listing title,
// with the category path resolved for display.
func (s *Service) Predict(ctx context.Context, title string) (*seller.CategoryPrediction, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "predict")
	defer span.End()

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", seller.ErrUpstreamRejected)
	}

	prediction, err := s.market.PredictCategory(ctx, title)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	// The prediction endpoint returns only the leaf id; the path comes
	// from a category lookup. A failed lookup degrades to a pathless
	// prediction rather than failing the whole call.
	if category, err := s.market.Category(ctx, prediction.CategoryID); err == nil {
		prediction.Path = category.Path
	} else {
		s.logger.Warn("category path lookup failed",
			zap.String("category_id", prediction.CategoryID),
			zap.Error(err))
	}

	return prediction, nil
}

// Get returns a category with its path and children.
func (s *Service) Get(ctx context.Context, id string) (*seller.Category, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "catalog", "get")
	defer span.End()

	category, err := s.market.Category(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return category, nil
}
