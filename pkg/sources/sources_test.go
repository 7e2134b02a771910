package sources_test

import (
	"testing"

	"github.com/carebridge/nutrimap/pkg/sources"
	"github.com/stretchr/testify/assert"
)

func TestApplySearchOptions(t *testing.T) {
	o := sources.ApplySearchOptions()
	assert.Equal(t, 25, o.PageSize)
	assert.Equal(t, 1, o.PageNumber)

	o = sources.ApplySearchOptions(sources.WithPageSize(50), sources.WithPageNumber(3))
	assert.Equal(t, 50, o.PageSize)
	assert.Equal(t, 3, o.PageNumber)

	o = sources.ApplySearchOptions(sources.WithPageSize(0), sources.WithPageSize(10000), sources.WithPageNumber(-1))
	assert.Equal(t, 200, o.PageSize)
	assert.Equal(t, 1, o.PageNumber)
}
