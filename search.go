package nutrimap

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/carebridge/nutrimap/pkg/constants"
	"github.com/carebridge/nutrimap/pkg/errors"
	"github.com/carebridge/nutrimap/pkg/logging"
	"github.com/carebridge/nutrimap/pkg/nutrition"
	"github.com/carebridge/nutrimap/pkg/sources"
)

// IsSearchable reports whether query is long enough to be sent to the
// reference provider.
func IsSearchable(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) >= constants.MinQueryLength
}

// Search implements Searcher.
func (c *client) Search(ctx context.Context, query string, opts ...sources.SearchOption) (*nutrition.SearchResponse, error) {
	if !IsSearchable(query) {
		return nutrition.EmptySearchResponse(), nil
	}
	trimmed := strings.TrimSpace(query)

	ctx = logging.WithQuery(c.withLogger(ctx), trimmed)
	logger := logging.FromContext(ctx)

	opts = append([]sources.SearchOption{sources.WithPageSize(c.pageSize)}, opts...)
	resp, err := c.reference.Search(ctx, trimmed, opts...)
	if err != nil {
		if errors.IsCanceled(err) {
			logger.Debug().Err(err).Msg("Search canceled")
		} else {
			logger.Error().Err(err).Msg("Error searching foods")
		}
		return nil, errors.NewSearchError(trimmed, err)
	}
	if resp == nil {
		resp = nutrition.EmptySearchResponse()
	}
	if resp.Foods == nil {
		resp.Foods = []nutrition.SearchResult{}
	}

	logger.Debug().
		Int("results", len(resp.Foods)).
		Int("total_hits", resp.TotalHits).
		Msg("Search completed")

	return resp, nil
}
