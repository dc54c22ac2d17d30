package campaign

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
	"github.com/caubebinhan/boembotiktok-sub000/internal/schedule"
)

// TimelineFile is the handoff document emitted after every recompute; the
// external executor reads it to know when each action runs. Times are
// encoded as timezone-naive local wall-clock strings.
type TimelineFile struct {
	SchemaVersion int          `yaml:"schema_version"`
	Campaign      string       `yaml:"campaign"`
	GeneratedAt   string       `yaml:"generated_at"`
	Anchor        string       `yaml:"anchor"`
	Items         []ItemRecord `yaml:"items"`
}

type ItemRecord struct {
	ID       string `yaml:"id"`
	Time     string `yaml:"time"`
	Kind     string `yaml:"kind"`
	Label    string `yaml:"label,omitempty"`
	Detail   string `yaml:"detail,omitempty"`
	Icon     string `yaml:"icon,omitempty"`
	VideoID  string `yaml:"video_id,omitempty"`
	SourceID string `yaml:"source_id,omitempty"`
}

// WriteTimeline encodes the plan and writes it atomically.
func WriteTimeline(path, name string, p schedule.Plan, now time.Time) error {
	file := TimelineFile{
		SchemaVersion: SchemaVersion,
		Campaign:      name,
		GeneratedAt:   model.FormatLocal(now),
		Anchor:        model.FormatLocal(p.Anchor),
		Items:         make([]ItemRecord, 0, len(p.Items)),
	}
	for _, it := range p.Items {
		rec := ItemRecord{
			ID:       it.ID,
			Time:     model.FormatLocal(it.Time),
			Kind:     string(it.Kind),
			Label:    it.Label,
			Detail:   it.Detail,
			Icon:     it.Icon,
			SourceID: it.SourceID,
		}
		if it.Video != nil {
			rec.VideoID = it.Video.ID
		}
		file.Items = append(file.Items, rec)
	}
	return atomicWrite(path, file)
}

// ReadTimeline decodes a previously written handoff file.
func ReadTimeline(path string) (TimelineFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return TimelineFile{}, fmt.Errorf("read timeline file: %w", err)
	}
	var f TimelineFile
	if err := yamlv3.Unmarshal(content, &f); err != nil {
		return TimelineFile{}, fmt.Errorf("parse timeline file: %w", err)
	}
	return f, nil
}

// atomicWrite marshals data and replaces path in one rename, validating the
// written bytes and keeping a .bak of the previous version. A crashed writer
// never leaves a half-written handoff file for the executor to pick up.
func atomicWrite(path string, data any) error {
	content, err := yamlv3.Marshal(data)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".boembo-tmp-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	written, err := os.ReadFile(tmpName)
	if err != nil {
		return fmt.Errorf("read temp file for validation: %w", err)
	}
	var check any
	if err := yamlv3.Unmarshal(written, &check); err != nil {
		return fmt.Errorf("yaml validation failed: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		if err := copyFile(path, path+".bak"); err != nil {
			return fmt.Errorf("create backup: %w", err)
		}
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
