// services/importer.go
package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"bayorder-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// The master sheet's header row. A sheet whose header does not match
// exactly is rejected wholesale before any row is parsed.
var sheetHeader = []string{
	"Type",
	"Category",
	"Item Name",
	"Price",
	"Available",
	"Modifiers (comma-separated)",
	"Image Path",
}

const placeholderImage = "images/placeholder.png"

var ErrHeaderMismatch = errors.New("sheet header does not match expected columns")

// ImportReport summarizes one import run. Row errors are collected,
// not fatal: one bad row never aborts the batch.
type ImportReport struct {
	Parsed       int      `json:"parsed"`
	SkippedBlank int      `json:"skippedBlank"`
	Errored      int      `json:"errored"`
	Errors       []string `json:"errors"`
	BeachDrinks  int      `json:"beachDrinks"`
	RoomService  int      `json:"roomService"`
}

// SheetImporter pulls the menu sheet as CSV and replaces the staging
// slot with the validated result.
type SheetImporter struct {
	db     *gorm.DB
	url    string
	client *http.Client
}

func NewSheetImporter(db *gorm.DB, sheetURL string) *SheetImporter {
	return &SheetImporter{
		db:     db,
		url:    sheetURL,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads the sheet CSV. Nothing is written on failure, so a
// dead spreadsheet link can never leave a half-written staging menu.
func (s *SheetImporter) Fetch(ctx context.Context) ([]byte, error) {
	if s.url == "" {
		return nil, errors.New("SHEET_CSV_URL not set")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building sheet request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching sheet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching sheet: unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// Sync runs a full import: fetch, parse, overwrite staging.
func (s *SheetImporter) Sync(ctx context.Context, actor string) (*ImportReport, error) {
	data, err := s.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return s.ImportBytes(data, actor)
}

// ImportBytes parses CSV data and replaces the staging menu in a
// single overwrite, stamped with the import time and actor.
func (s *SheetImporter) ImportBytes(data []byte, actor string) (*ImportReport, error) {
	beach, room, report, err := ParseMenuCSV(strings.NewReader(string(data)))
	if err != nil {
		return nil, err
	}

	doc := models.MenuDocument{
		Slot:        models.SlotStaging,
		BeachDrinks: beach,
		RoomService: room,
		LastUpdated: time.Now().UTC(),
		UpdatedBy:   actor,
		ItemCount:   len(beach) + len(room),
	}

	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&doc).Error; err != nil {
		return nil, fmt.Errorf("writing staging menu: %w", err)
	}

	return report, nil
}

// ParseMenuCSV validates rows and partitions them into the two menu
// sections. The header must match exactly; everything after it is
// validated row by row.
func ParseMenuCSV(r io.Reader) (models.MenuItems, models.MenuItems, *ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("reading sheet header: %w", err)
	}
	if !headerMatches(header) {
		return nil, nil, nil, fmt.Errorf("%w: got %q", ErrHeaderMismatch, strings.Join(header, ","))
	}

	beach := models.MenuItems{}
	room := models.MenuItems{}
	report := &ImportReport{Errors: []string{}}

	for rowNumber := 2; ; rowNumber++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, fmt.Errorf("reading sheet row %d: %w", rowNumber, err)
		}

		// Rows with an empty leading cell are blank padding.
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			report.SkippedBlank++
			continue
		}

		menuType, item, err := rowToMenuItem(row)
		if err != nil {
			report.Errored++
			report.Errors = append(report.Errors, fmt.Sprintf("Row %d: %v", rowNumber, err))
			continue
		}

		if menuType == "beachdrinks" {
			beach = append(beach, *item)
		} else {
			room = append(room, *item)
		}
		report.Parsed++
	}

	report.BeachDrinks = len(beach)
	report.RoomService = len(room)
	return beach, room, report, nil
}

func headerMatches(header []string) bool {
	if len(header) != len(sheetHeader) {
		return false
	}
	for i, col := range sheetHeader {
		if strings.TrimSpace(header[i]) != col {
			return false
		}
	}
	return true
}

// Row format: type, category, itemName, price, available, modifiers, imagePath.
func rowToMenuItem(row []string) (string, *models.MenuItem, error) {
	if field(row, 0) == "" || field(row, 1) == "" || field(row, 2) == "" || field(row, 3) == "" {
		return "", nil, errors.New("missing required fields (type, category, itemName, or price)")
	}

	menuType, err := normalizeType(field(row, 0))
	if err != nil {
		return "", nil, err
	}

	price, err := parsePrice(field(row, 3))
	if err != nil {
		return "", nil, err
	}

	available, err := parseAvailable(field(row, 4))
	if err != nil {
		return "", nil, err
	}

	image := field(row, 6)
	if image == "" {
		image = placeholderImage
	}

	item := &models.MenuItem{
		Name:      field(row, 2),
		Category:  field(row, 1),
		Price:     price,
		Image:     image,
		Available: available,
		Modifiers: parseModifiers(field(row, 5)),
	}

	return menuType, item, nil
}

func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func normalizeType(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized != "beachdrinks" && normalized != "roomservice" {
		return "", fmt.Errorf("invalid type: %s. Must be \"beachdrinks\" or \"roomservice\"", raw)
	}
	return normalized, nil
}

func parsePrice(raw string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(raw)
	price, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil || price <= 0 {
		return 0, fmt.Errorf("invalid price: %s. Must be a number greater than 0", raw)
	}
	return price, nil
}

func parseAvailable(raw string) (bool, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized != "TRUE" && normalized != "FALSE" {
		return false, fmt.Errorf("invalid available value: %s. Must be TRUE or FALSE", raw)
	}
	return normalized == "TRUE", nil
}

// The export writes modifiers joined with "; "; sheet editors tend to
// type plain commas. Both separators are accepted.
func parseModifiers(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	raw = strings.ReplaceAll(raw, ";", ",")
	parts := strings.Split(raw, ",")
	modifiers := []string{}
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			modifiers = append(modifiers, part)
		}
	}
	return modifiers
}
