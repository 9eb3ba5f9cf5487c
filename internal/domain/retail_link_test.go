package domain_test

import (
	"testing"

	"book-recommender/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestRetailLinkBuilder_BuildLink(t *testing.T) {
	builder := domain.NewRetailLinkBuilder("readingnotes-20")

	t.Run("Encodes query and attaches affiliate tag", func(t *testing.T) {
		link := builder.BuildLink("The Great Gatsby", "F. Scott Fitzgerald")
		assert.Equal(t, "https://www.amazon.com/s?k=The+Great+Gatsby+F.+Scott+Fitzgerald&tag=readingnotes-20", link)
	})

	t.Run("Deterministic across calls", func(t *testing.T) {
		l1 := builder.BuildLink("Dune", "Frank Herbert")
		l2 := builder.BuildLink("Dune", "Frank Herbert")
		assert.Equal(t, l1, l2)
	})

	t.Run("Escapes reserved characters", func(t *testing.T) {
		link := builder.BuildLink("Code & Other Laws", "Lawrence Lessig")
		assert.Contains(t, link, "k=Code+%26+Other+Laws+Lawrence+Lessig")
	})

	t.Run("Empty author still yields a valid link", func(t *testing.T) {
		link := builder.BuildLink("Untitled", "")
		assert.Contains(t, link, "k=Untitled")
		assert.Contains(t, link, "tag=readingnotes-20")
	})
}
