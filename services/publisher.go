// services/publisher.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bayorder-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrStagingMissing = errors.New("staging menu not found, run sync first")
	ErrStagingInvalid = errors.New("invalid menu structure: missing beachDrinks or roomService")
)

type PublishResult struct {
	PublishedBy string    `json:"publishedBy"`
	Timestamp   time.Time `json:"timestamp"`
	ItemCount   int       `json:"itemCount"`
	Backup      string    `json:"backup,omitempty"`
}

// Publisher copies the staging menu into production, after writing a
// timestamped backup of whatever production held before. Concurrent
// publishes are not coordinated: last writer wins, per the
// single-admin operating assumption.
type Publisher struct {
	db *gorm.DB
}

func NewPublisher(db *gorm.DB) *Publisher {
	return &Publisher{db: db}
}

func (p *Publisher) Publish(publishedBy string) (*PublishResult, error) {
	var staging models.MenuDocument
	err := p.db.First(&staging, "slot = ?", models.SlotStaging).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStagingMissing
	}
	if err != nil {
		return nil, fmt.Errorf("reading staging menu: %w", err)
	}

	// Both section lists must be present, even if empty. An absent
	// section means a broken import, not an empty menu.
	if staging.BeachDrinks == nil || staging.RoomService == nil {
		return nil, ErrStagingInvalid
	}

	now := time.Now().UTC()
	result := &PublishResult{
		PublishedBy: publishedBy,
		Timestamp:   now,
		ItemCount:   staging.TotalItems(),
	}

	// Back up the current production snapshot before touching it. The
	// backup row must be durably written first so a crash between the
	// two steps never loses the only copy of the prior state.
	var production models.MenuDocument
	err = p.db.First(&production, "slot = ?", models.SlotProduction).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("reading production menu: %w", err)
	}
	if err == nil {
		backup, err := p.backupProduction(&production, publishedBy, now)
		if err != nil {
			return nil, err
		}
		result.Backup = backup.Filename
	}

	published := models.MenuDocument{
		Slot:        models.SlotProduction,
		BeachDrinks: staging.BeachDrinks,
		RoomService: staging.RoomService,
		LastUpdated: now,
		UpdatedBy:   publishedBy,
		ItemCount:   staging.TotalItems(),
	}

	if err := p.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&published).Error; err != nil {
		return nil, fmt.Errorf("writing production menu: %w", err)
	}

	return result, nil
}

func (p *Publisher) backupProduction(production *models.MenuDocument, publishedBy string, now time.Time) (*models.MenuBackup, error) {
	snapshot, err := json.Marshal(production)
	if err != nil {
		return nil, fmt.Errorf("serializing production snapshot: %w", err)
	}

	backup := models.MenuBackup{
		Filename:    BackupFilename(now),
		PublishedBy: publishedBy,
		Snapshot:    models.RawJSON(snapshot),
		Size:        len(snapshot),
		CreatedAt:   now,
	}

	// Filenames have one-second granularity, so publishes landing in
	// the same second share one. The newer snapshot overwrites the
	// older rather than failing the publish.
	err = p.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "filename"}},
		UpdateAll: true,
	}).Create(&backup).Error
	if err != nil {
		return nil, fmt.Errorf("writing backup: %w", err)
	}
	return &backup, nil
}

// BackupFilename names a backup by publish timestamp, colon-free so it
// stays a valid filename when downloaded.
func BackupFilename(t time.Time) string {
	return "menu_" + t.UTC().Format("2006-01-02T15-04-05") + ".json"
}
