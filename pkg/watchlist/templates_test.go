package watchlist

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/watchers/errors"
	"github.com/grovetools/watchers/pkg/models"
)

func quietLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func templates(ids ...string) []models.Template {
	out := make([]models.Template, len(ids))
	for i, id := range ids {
		out[i] = models.Template{ID: id, Title: id}
	}
	return out
}

func TestTemplateLoader(t *testing.T) {
	t.Run("merges categories and publishes once", func(t *testing.T) {
		provider := &fakeTemplates{byCat: map[models.TemplateCategory][]models.Template{
			models.CategoryInput:     templates("http", "search"),
			models.CategoryCondition: nil,
			models.CategoryTransform: templates("script", "chain", "search"),
		}}
		transfer := &fakeTransfer{}

		cache, err := NewTemplateLoader(provider, transfer, quietLogger()).Load(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 3, provider.calls)
		assert.Equal(t, 2, cache.Count(models.CategoryInput))
		assert.Equal(t, 0, cache.Count(models.CategoryCondition))
		assert.Equal(t, 3, cache.Count(models.CategoryTransform))
		assert.Equal(t, models.CategoryTransform, cache[models.CategoryTransform]["search"].Category)

		require.Len(t, transfer.templates, 1)
		assert.Equal(t, cache, transfer.templates[0])
	})

	t.Run("any failure publishes nothing", func(t *testing.T) {
		provider := &fakeTemplates{
			byCat:  map[models.TemplateCategory][]models.Template{models.CategoryInput: templates("http")},
			errCat: models.CategoryCondition,
		}
		transfer := &fakeTransfer{}

		cache, err := NewTemplateLoader(provider, transfer, quietLogger()).Load(context.Background())
		require.Error(t, err)
		assert.Nil(t, cache)
		assert.True(t, errors.Is(err, errors.ErrCodeRemoteFailure))
		assert.Empty(t, transfer.templates)
	})

	t.Run("controller surfaces the failure", func(t *testing.T) {
		h := newHarness()
		h.tmpl.errCat = models.CategoryTransform
		c := h.controller()

		Drive(c, c.LoadTemplates())
		assert.Len(t, h.notifier.errs, 1)
		assert.Empty(t, h.transfer.templates)
	})

	t.Run("nil transfer", func(t *testing.T) {
		provider := &fakeTemplates{byCat: map[models.TemplateCategory][]models.Template{}}
		cache, err := NewTemplateLoader(provider, nil, quietLogger()).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, cache, 3)
	})
}
