package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageSkip(t *testing.T) {
	assert.Equal(t, int64(0), Page{Page: 0, Limit: 10}.Skip())
	assert.Equal(t, int64(30), Page{Page: 3, Limit: 10}.Skip())
	assert.Equal(t, int64(14), Page{Page: 2, Limit: 7}.Skip())
}

func TestPageNormalize(t *testing.T) {
	assert.Equal(t, Page{Page: 0, Limit: DefaultPageSize}, Page{}.Normalize())
	assert.Equal(t, Page{Page: 0, Limit: MaxPageSize}, Page{Page: -1, Limit: 1000}.Normalize())
	assert.Equal(t, Page{Page: 4, Limit: 25}, Page{Page: 4, Limit: 25}.Normalize())
}

func TestPageSkipDoesNotOverflow(t *testing.T) {
	p := Page{Page: 100000000000000000, Limit: MaxPageSize}.Normalize()
	assert.Equal(t, int64(MaxPage), p.Page)
	assert.Positive(t, p.Skip())

	p = Page{Page: math.MaxInt64, Limit: 1}.Normalize()
	assert.Positive(t, p.Skip())
}

func TestVoteWeight(t *testing.T) {
	var none *Vote
	assert.Equal(t, int64(0), none.Weight())
	assert.Equal(t, int64(1), (&Vote{Type: VoteUp}).Weight())
	assert.Equal(t, int64(-1), (&Vote{Type: VoteDown}).Weight())
	assert.False(t, VoteType("sideways").Valid())
}
