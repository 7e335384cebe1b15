package watchlist

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/grovetools/watchers/pkg/models"
)

// TemplateLoader fetches every template category concurrently and merges
// them into one cache.
type TemplateLoader struct {
	provider TemplateProvider
	transfer Transfer
	logger   *logrus.Entry
}

// NewTemplateLoader returns a loader publishing to transfer. transfer may
// be nil, in which case Load only returns the cache.
func NewTemplateLoader(provider TemplateProvider, transfer Transfer, logger *logrus.Entry) *TemplateLoader {
	return &TemplateLoader{provider: provider, transfer: transfer, logger: logger}
}

// Load fetches input, condition and transform templates. The merged cache is
// published once, and only if all three succeed; otherwise the first error
// is returned and nothing is published.
func (l *TemplateLoader) Load(ctx context.Context) (models.TemplateCache, error) {
	results := make([][]models.Template, len(models.AllTemplateCategories))

	g, gctx := errgroup.WithContext(ctx)
	for i, category := range models.AllTemplateCategories {
		i, category := i, category
		g.Go(func() error {
			templates, err := l.provider.ListTemplates(gctx, category)
			if err != nil {
				return err
			}
			results[i] = templates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.logger.WithError(err).Warn("Failed to load templates")
		return nil, err
	}

	cache := models.NewTemplateCache()
	for i, category := range models.AllTemplateCategories {
		for _, t := range results[i] {
			t.Category = category
			cache[category][t.ID] = t
		}
	}
	if l.transfer != nil {
		l.transfer.SetTemplates(cache)
	}
	l.logger.WithFields(logrus.Fields{
		"input":     cache.Count(models.CategoryInput),
		"condition": cache.Count(models.CategoryCondition),
		"transform": cache.Count(models.CategoryTransform),
	}).Debug("Templates loaded")
	return cache, nil
}
