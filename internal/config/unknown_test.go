package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosestKeySuggestsNearMatch(t *testing.T) {
	assert.Equal(t, "access_key", closestKey("acess_key", knownProfileKeysList))
	assert.Equal(t, "bucket", closestKey("buckett", knownProfileKeysList))
}

func TestClosestKeyReturnsEmptyWhenNoneClose(t *testing.T) {
	assert.Empty(t, closestKey("completely_unrelated_xyz", knownProfileKeysList))
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshtein("bucket", "bucket"))
	assert.Equal(t, 1, levenshtein("bucket", "buckets"))
	assert.Equal(t, 1, levenshtein("bucket", "backet"))
}
