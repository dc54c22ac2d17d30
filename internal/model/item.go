// Package model defines the data structures for boembo's campaigns, timelines,
// schedule configuration, and job snapshots.
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ItemKind string

const (
	ItemPost ItemKind = "post"
	ItemScan ItemKind = "scan"
)

// Video is the publish payload carried by a post item. The scheduling engine
// treats it as opaque and passes it through unchanged.
type Video struct {
	ID      string `yaml:"id" json:"id"`
	Title   string `yaml:"title" json:"title"`
	URL     string `yaml:"url" json:"url"`
	Author  string `yaml:"author,omitempty" json:"author,omitempty"`
	Caption string `yaml:"caption,omitempty" json:"caption,omitempty"`
}

// Source is a channel or keyword feed that is periodically scanned for new
// videos.
type Source struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	URL  string `yaml:"url,omitempty" json:"url,omitempty"`
	Kind string `yaml:"kind,omitempty" json:"kind,omitempty"` // "channel" or "keyword"
}

// TimelineItem is one schedulable unit: either publishing a specific video or
// beginning a scan of a source. Exactly one of Video/SourceID is set,
// matching Kind. Times are assigned and reassigned by the allocator; list
// membership never changes across recomputes.
type TimelineItem struct {
	ID     string
	Time   time.Time
	Kind   ItemKind
	Label  string
	Detail string
	Icon   string

	Video    *Video
	SourceID string
}

// itemNamespace is the fixed UUID namespace for deterministic item IDs.
var itemNamespace = uuid.MustParse("9b2f41d6-3c55-4e87-a0d1-7f86b4c1e2aa")

// ItemID derives a stable identifier from the item kind and the identity of
// its payload. Rebuilding a timeline from identical inputs yields identical
// IDs.
func ItemID(kind ItemKind, identity string) string {
	return fmt.Sprintf("%s_%s", kind, uuid.NewSHA1(itemNamespace, []byte(string(kind)+":"+identity)))
}

// MissedJob is a previously-scheduled entry that was never executed, as
// handed back by the schedule store for crash recovery. It carries enough to
// rebuild a timeline item with the same identity.
type MissedJob struct {
	ID       string
	Kind     ItemKind
	Video    *Video
	SourceID string
}
