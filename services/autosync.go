// services/autosync.go
package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"

	"github.com/robfig/cron/v3"
)

const defaultSyncSchedule = "*/5 * * * *"

// AutoSync polls the menu sheet on a schedule and re-imports it into
// staging when the content changed since the last run. The change
// check is a content hash, so touching the sheet without editing it
// does not trigger a rewrite.
type AutoSync struct {
	importer *SheetImporter
	schedule string
	cron     *cron.Cron

	mu       sync.Mutex
	lastHash string
}

func NewAutoSync(importer *SheetImporter, schedule string) *AutoSync {
	if schedule == "" {
		schedule = defaultSyncSchedule
	}
	return &AutoSync{
		importer: importer,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start runs one check immediately, then on the cron schedule.
func (a *AutoSync) Start() error {
	a.CheckOnce()

	if _, err := a.cron.AddFunc(a.schedule, a.CheckOnce); err != nil {
		return err
	}

	a.cron.Start()
	log.Printf("Auto-sync scheduler started (%s)", a.schedule)
	return nil
}

func (a *AutoSync) Stop() {
	a.cron.Stop()
}

// CheckOnce fetches the sheet and imports it if its content changed.
func (a *AutoSync) CheckOnce() {
	data, err := a.importer.Fetch(context.Background())
	if err != nil {
		log.Printf("Auto-sync: fetch failed: %v", err)
		return
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	a.mu.Lock()
	unchanged := a.lastHash == hash
	a.mu.Unlock()

	if unchanged {
		log.Print("Auto-sync: no changes detected, skipping")
		return
	}

	report, err := a.importer.ImportBytes(data, "auto-sync")
	if err != nil {
		log.Printf("Auto-sync: import failed: %v", err)
		return
	}

	a.mu.Lock()
	a.lastHash = hash
	a.mu.Unlock()

	log.Printf("Auto-sync: imported %d items (%d skipped, %d errors)",
		report.Parsed, report.SkippedBlank, report.Errored)
}
