// services/exporter.go
package services

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"bayorder-backend/models"
)

// ExportMenuCSV flattens a menu document back into the master sheet's
// CSV layout so the sheet can be re-seeded from a published menu.
// Importing the output reproduces the same item set.
func ExportMenuCSV(doc *models.MenuDocument, w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(sheetHeader); err != nil {
		return err
	}

	if err := writeSection(writer, "beachdrinks", doc.BeachDrinks); err != nil {
		return err
	}
	if err := writeSection(writer, "roomservice", doc.RoomService); err != nil {
		return err
	}

	writer.Flush()
	return writer.Error()
}

func writeSection(writer *csv.Writer, menuType string, items models.MenuItems) error {
	for _, item := range items {
		available := "FALSE"
		if item.Available {
			available = "TRUE"
		}

		image := item.Image
		if image == "" {
			image = placeholderImage
		}

		row := []string{
			menuType,
			item.Category,
			item.Name,
			strconv.FormatFloat(item.Price, 'f', 2, 64),
			available,
			strings.Join(item.Modifiers, "; "),
			image,
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}
