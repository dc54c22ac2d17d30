package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/caubebinhan/boembotiktok-sub000/internal/model"
)

type PostgresInfo struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
}

type Postgres struct {
	db *sql.DB
}

func NewPostgres(info PostgresInfo) (*Postgres, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		info.Host, info.Port, info.User, info.Password, info.Database))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	p := &Postgres{db: db}
	if err := p.migrate(pgMigration); err != nil {
		return nil, err
	}
	return p, nil
}

// schedule_item.run_at is a VARCHAR holding the local-naive encoding rather
// than a TIMESTAMP: the operator's wall clock must round-trip unconverted,
// and the fixed-width layout compares correctly as text.
var pgMigration = []string{
	`CREATE TABLE schedule_item (
id VARCHAR(255) PRIMARY KEY,
campaign VARCHAR(255) NOT NULL,
kind VARCHAR(16) NOT NULL,
run_at VARCHAR(19) NOT NULL,
label VARCHAR(255) NOT NULL DEFAULT '',
video_id VARCHAR(255) NOT NULL DEFAULT '',
video_title VARCHAR(255) NOT NULL DEFAULT '',
video_url VARCHAR(255) NOT NULL DEFAULT '',
video_author VARCHAR(255) NOT NULL DEFAULT '',
video_caption TEXT NOT NULL DEFAULT '',
source_id VARCHAR(255) NOT NULL DEFAULT '',
executed BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`CREATE INDEX schedule_item_campaign_run_at ON schedule_item (campaign, run_at)`,
}

func (p *Postgres) migrate(wanted []string) error {
	query := `CREATE TABLE IF NOT EXISTS migration
("id" SERIAL PRIMARY KEY, "query" TEXT)`
	_, err := p.db.Exec(query)
	if err != nil {
		return err
	}

	// find existing
	rows, err := p.db.Query(`SELECT query FROM migration ORDER BY id`)
	if err != nil {
		return err
	}

	existing := []string{}
	for rows.Next() {
		var query string
		if err := rows.Scan(&query); err != nil {
			return err
		}
		existing = append(existing, query)
	}
	rows.Close()

	missing, err := compareMigrations(wanted, existing)
	if err != nil {
		return err
	}

	for _, query := range missing {
		if _, err := p.db.Exec(query); err != nil {
			return err
		}
		if _, err := p.db.Exec(`
INSERT INTO migration
(query) VALUES ($1)
`, query); err != nil {
			return err
		}
	}

	return nil
}

func compareMigrations(wanted, existing []string) ([]string, error) {
	needed := []string{}
	if len(wanted) < len(existing) {
		return []string{}, fmt.Errorf("not enough migrations")
	}

	for i, want := range wanted {
		switch {
		case i >= len(existing):
			needed = append(needed, want)
		case want == existing[i]:
			// do nothing
		case want != existing[i]:
			return []string{}, fmt.Errorf("incompatible migration: %v", want)
		}
	}

	return needed, nil
}

type PostgresScheduleRepository struct {
	pg *Postgres
}

func NewPostgresScheduleRepository(pg *Postgres) *PostgresScheduleRepository {
	return &PostgresScheduleRepository{pg: pg}
}

// SaveTimeline replaces the campaign's stored schedule with the given items.
// Executed markers on surviving ids are preserved.
func (r *PostgresScheduleRepository) SaveTimeline(campaign string, items []model.TimelineItem) error {
	tx, err := r.pg.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM schedule_item WHERE campaign = $1 AND executed = FALSE`, campaign); err != nil {
		return err
	}

	for _, it := range items {
		var videoID, videoTitle, videoURL, videoAuthor, videoCaption string
		if it.Video != nil {
			videoID = it.Video.ID
			videoTitle = it.Video.Title
			videoURL = it.Video.URL
			videoAuthor = it.Video.Author
			videoCaption = it.Video.Caption
		}
		if _, err := tx.Exec(`
INSERT INTO schedule_item
(id, campaign, kind, run_at, label, video_id, video_title, video_url, video_author, video_caption, source_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO UPDATE SET
run_at = EXCLUDED.run_at,
label = EXCLUDED.label
`, it.ID, campaign, string(it.Kind), model.FormatLocal(it.Time), it.Label,
			videoID, videoTitle, videoURL, videoAuthor, videoCaption, it.SourceID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// FetchMissed returns unexecuted entries whose scheduled time is before now,
// ready to be rebuilt into a fresh timeline anchored at now. The fixed-width
// local encoding makes the cutoff a plain string comparison.
func (r *PostgresScheduleRepository) FetchMissed(campaign string, now time.Time) ([]model.MissedJob, error) {
	rows, err := r.pg.db.Query(`
SELECT id, kind, video_id, video_title, video_url, video_author, video_caption, source_id
FROM schedule_item
WHERE campaign = $1 AND executed = FALSE AND run_at < $2
ORDER BY run_at
`, campaign, model.FormatLocal(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	missed := []model.MissedJob{}
	for rows.Next() {
		var m model.MissedJob
		var kind, videoID, videoTitle, videoURL, videoAuthor, videoCaption string
		if err := rows.Scan(&m.ID, &kind, &videoID, &videoTitle, &videoURL, &videoAuthor, &videoCaption, &m.SourceID); err != nil {
			return nil, err
		}
		m.Kind = model.ItemKind(kind)
		if m.Kind == model.ItemPost {
			m.Video = &model.Video{
				ID:      videoID,
				Title:   videoTitle,
				URL:     videoURL,
				Author:  videoAuthor,
				Caption: videoCaption,
			}
		}
		missed = append(missed, m)
	}
	return missed, rows.Err()
}

// MarkExecuted records that the external executor performed an entry.
func (r *PostgresScheduleRepository) MarkExecuted(id string) error {
	res, err := r.pg.db.Exec(`UPDATE schedule_item SET executed = TRUE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
