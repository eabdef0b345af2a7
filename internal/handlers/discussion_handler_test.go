package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseListQueryDefaults(t *testing.T) {
	q := parseListQuery(url.Values{})

	assert.Equal(t, int64(1), q.page)
	assert.Equal(t, int64(10), q.limit)
	assert.Empty(t, q.filter)
}

func TestParseListQueryPageAndLimit(t *testing.T) {
	q := parseListQuery(url.Values{"page": {"3"}, "limit": {"25"}})

	assert.Equal(t, int64(3), q.page)
	assert.Equal(t, int64(25), q.limit)
}

func TestParseListQueryLimitCap(t *testing.T) {
	q := parseListQuery(url.Values{"limit": {"500"}})
	assert.Equal(t, int64(50), q.limit)
}

func TestParseListQueryIgnoresGarbage(t *testing.T) {
	q := parseListQuery(url.Values{"page": {"zero"}, "limit": {"-4"}})

	assert.Equal(t, int64(1), q.page)
	assert.Equal(t, int64(10), q.limit)
}

func TestParseListQuerySearch(t *testing.T) {
	q := parseListQuery(url.Values{"query": {"goroutine"}})

	or, ok := q.filter["$or"].([]bson.M)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Equal(t, bson.M{"$regex": "goroutine", "$options": "i"}, or[0]["title"])
	assert.Equal(t, bson.M{"$regex": "goroutine", "$options": "i"}, or[1]["content"])
}

func TestParseListQueryTags(t *testing.T) {
	q := parseListQuery(url.Values{"tags": {"go, web , "}})

	assert.Equal(t, bson.M{"$in": []string{"go", "web"}}, q.filter["tags"])
}

func TestParseListQueryEmptyTags(t *testing.T) {
	q := parseListQuery(url.Values{"tags": {" , "}})
	assert.NotContains(t, q.filter, "tags")
}
