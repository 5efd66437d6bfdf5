package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
)

// itemRow is the flat CSV representation of one categorized receipt item.
type itemRow struct {
	Store      string `csv:"store"`
	Date       string `csv:"date"`
	Name       string `csv:"name"`
	Category   string `csv:"category"`
	Quantity   string `csv:"quantity"`
	UnitPrice  string `csv:"unit_price"`
	TotalPrice string `csv:"total_price"`
	TaxRate    string `csv:"tax_rate"`
}

// WriteReceiptCSV exports a categorized receipt's items to a CSV file.
func WriteReceiptCSV(receipt *models.ParsedReceipt, csvFile string, log logging.Logger) error {
	if log == nil {
		log = logging.GetLogger()
	}

	rows := make([]itemRow, 0, len(receipt.Items))
	for _, item := range receipt.Items {
		rows = append(rows, itemRow{
			Store:      receipt.StoreName,
			Date:       receipt.PurchaseDate,
			Name:       item.Name,
			Category:   string(item.Category),
			Quantity:   item.Quantity.String(),
			UnitPrice:  item.UnitPrice.StringFixed(2),
			TotalPrice: item.TotalPrice.StringFixed(2),
			TaxRate:    item.TaxRate,
		})
	}

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close CSV file",
				logging.Field{Key: "file", Value: csvFile})
		}
	}()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("error writing CSV: %w", err)
	}

	log.Info("Wrote receipt items to CSV file",
		logging.Field{Key: "count", Value: len(rows)},
		logging.Field{Key: "file", Value: csvFile})
	return nil
}
