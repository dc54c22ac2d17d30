package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

func TestBuildOrderAndKinds(t *testing.T) {
	videos := []model.Video{
		{ID: "v1", Title: "First clip", Author: "@alice"},
		{ID: "v2", Title: "Second clip", Author: "@bob"},
	}
	sources := []model.Source{
		{ID: "s1", Name: "trending-cats", Kind: "keyword"},
	}

	items := Build(videos, sources)
	require.Len(t, items, 3)

	// Post items first, in video order, each carrying the video payload.
	assert.Equal(t, model.ItemPost, items[0].Kind)
	assert.Equal(t, model.ItemPost, items[1].Kind)
	require.NotNil(t, items[0].Video)
	assert.Equal(t, "v1", items[0].Video.ID)
	assert.Equal(t, "First clip", items[0].Label)
	assert.Equal(t, "v2", items[1].Video.ID)

	// Scan items appended after, in source order.
	assert.Equal(t, model.ItemScan, items[2].Kind)
	assert.Equal(t, "s1", items[2].SourceID)
	assert.Nil(t, items[2].Video)

	// Exactly one of video/source id is present per item.
	for _, it := range items {
		hasVideo := it.Video != nil
		hasSource := it.SourceID != ""
		assert.NotEqual(t, hasVideo, hasSource, "item %s must carry exactly one payload", it.ID)
	}
}

func TestBuildDeterministicIDs(t *testing.T) {
	videos := []model.Video{{ID: "v1", Title: "Clip"}}
	sources := []model.Source{{ID: "s1", Name: "feed"}}

	first := Build(videos, sources)
	second := Build(videos, sources)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
}

func TestBuildEmpty(t *testing.T) {
	assert.Empty(t, Build(nil, nil))
}

func TestBuildFromMissed(t *testing.T) {
	missed := []model.MissedJob{
		{ID: "post_abc", Kind: model.ItemPost, Video: &model.Video{ID: "v9", Title: "Recovered clip"}},
		{Kind: model.ItemScan, SourceID: "s7"},
	}

	items := BuildFromMissed(missed)
	require.Len(t, items, 2)

	assert.Equal(t, "post_abc", items[0].ID)
	assert.Equal(t, model.ItemPost, items[0].Kind)
	assert.Equal(t, "Recovered clip", items[0].Label)

	// Missing id is re-derived from the payload identity.
	assert.Equal(t, model.ItemID(model.ItemScan, "s7"), items[1].ID)
	assert.Equal(t, "s7", items[1].SourceID)
}
