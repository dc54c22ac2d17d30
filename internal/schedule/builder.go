package schedule

import (
	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

// Build constructs the initial ordered timeline for a campaign: one post item
// per video in input order, then one scan item per source in input order.
// Times are placeholders until the allocator assigns them. Empty inputs yield
// an empty timeline.
func Build(videos []model.Video, sources []model.Source) []model.TimelineItem {
	items := make([]model.TimelineItem, 0, len(videos)+len(sources))
	for i := range videos {
		v := videos[i]
		items = append(items, model.TimelineItem{
			ID:     model.ItemID(model.ItemPost, v.ID),
			Kind:   model.ItemPost,
			Label:  v.Title,
			Detail: v.Author,
			Icon:   "video",
			Video:  &v,
		})
	}
	for _, s := range sources {
		items = append(items, model.TimelineItem{
			ID:       model.ItemID(model.ItemScan, s.ID),
			Kind:     model.ItemScan,
			Label:    s.Name,
			Detail:   s.URL,
			Icon:     "radar",
			SourceID: s.ID,
		})
	}
	return items
}

// BuildFromMissed rebuilds timeline items from previously-missed scheduled
// jobs so crash recovery can reschedule them through the same engine,
// anchored at now by the caller. Item identities are preserved.
func BuildFromMissed(missed []model.MissedJob) []model.TimelineItem {
	items := make([]model.TimelineItem, 0, len(missed))
	for i := range missed {
		m := missed[i]
		item := model.TimelineItem{ID: m.ID, Kind: m.Kind}
		switch m.Kind {
		case model.ItemScan:
			item.SourceID = m.SourceID
			item.Label = m.SourceID
			item.Icon = "radar"
		default:
			item.Kind = model.ItemPost
			item.Video = m.Video
			item.Icon = "video"
			if m.Video != nil {
				item.Label = m.Video.Title
				item.Detail = m.Video.Author
			}
		}
		if item.ID == "" {
			switch item.Kind {
			case model.ItemScan:
				item.ID = model.ItemID(model.ItemScan, m.SourceID)
			default:
				if m.Video != nil {
					item.ID = model.ItemID(model.ItemPost, m.Video.ID)
				}
			}
		}
		items = append(items, item)
	}
	return items
}
