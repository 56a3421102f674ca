package catalog

import (
	"context"
	"log/slog"
)

// Service adapts the catalog repository to the menu machine's listing
// needs. Lookups that fail fall back to empty output, which makes the
// menu use its canned texts.
type Service struct {
	repo Repository
	log  *slog.Logger
}

func NewService(repo Repository, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		repo: repo,
		log:  log,
	}
}

// CategoryListing returns the formatted product list for a category
// name fragment, or empty when the category has no products.
func (s *Service) CategoryListing(ctx context.Context, category string) (string, error) {
	products, err := s.repo.ProductsByCategoryName(ctx, category)
	if err != nil {
		s.log.Warn("category listing failed", slog.String("category", category), slog.String("error", err.Error()))
		return "", err
	}

	if len(products) == 0 {
		return "", nil
	}

	return FormatProductList(products), nil
}

// OffersListing returns the formatted current offers, or empty when
// none are active.
func (s *Service) OffersListing(ctx context.Context) (string, error) {
	offers, err := s.repo.ActiveOffers(ctx)
	if err != nil {
		s.log.Warn("offers listing failed", slog.String("error", err.Error()))
		return "", err
	}

	if len(offers) == 0 {
		return "", nil
	}

	return FormatOffers(offers), nil
}
