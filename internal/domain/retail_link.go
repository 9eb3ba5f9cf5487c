package domain

import (
	"net/url"
	"strings"
)

const retailerSearchBase = "https://www.amazon.com/s"

// RetailLinkBuilder builds deterministic retailer search URLs for a book.
// It is pure: no I/O, no failure mode.
type RetailLinkBuilder interface {
	BuildLink(title, author string) string
}

type retailLinkBuilder struct {
	affiliateTag string
}

// NewRetailLinkBuilder creates a builder that embeds the given affiliate tag
// in every generated link.
func NewRetailLinkBuilder(affiliateTag string) RetailLinkBuilder {
	return &retailLinkBuilder{affiliateTag: affiliateTag}
}

// BuildLink returns an Amazon search URL for "{title} {author}" with the
// affiliate tag attached.
func (b *retailLinkBuilder) BuildLink(title, author string) string {
	query := strings.TrimSpace(title + " " + author)
	params := url.Values{}
	params.Set("k", query)
	params.Set("tag", b.affiliateTag)
	return retailerSearchBase + "?" + params.Encode()
}
