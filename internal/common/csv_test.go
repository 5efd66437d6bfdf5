package common_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/common"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
)

func TestWriteReceiptCSV(t *testing.T) {
	receipt := &models.ParsedReceipt{
		StoreName:    "REWE",
		PurchaseDate: "14.03.2024",
		Items: []models.ReceiptItem{
			{
				Name:       "Bananen",
				Category:   models.CategoryFruits,
				UnitPrice:  decimal.RequireFromString("1.99"),
				TotalPrice: decimal.RequireFromString("1.36"),
				Quantity:   decimal.RequireFromString("0.688"),
				TaxRate:    models.TaxClassB,
			},
		},
	}

	csvFile := filepath.Join(t.TempDir(), "out", "items.csv")
	require.NoError(t, common.WriteReceiptCSV(receipt, csvFile, &logging.MockLogger{}))

	data, err := os.ReadFile(csvFile)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "store,date,name,category,quantity,unit_price,total_price,tax_rate", lines[0])
	assert.Equal(t, "REWE,14.03.2024,Bananen,Fruits,0.688,1.99,1.36,B", lines[1])
}
