package edekaparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/edekaparser"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parsererror"
)

const sampleReceipt = `EDEKA Müller
Marktplatz 3
54321 Musterstadt
Tel. 0651-12345
Gouda 2,19 B
Tomaten 1,49 B
Summe EUR 3,68
Bar 5,00
Rückgeld 1,32
B= 7,0% 3,44 0,24 3,68
15.06.2024 17:22
`

func TestDetect(t *testing.T) {
	assert.True(t, edekaparser.Detect(sampleReceipt))
	assert.True(t, edekaparser.Detect("edeka center"))
	assert.False(t, edekaparser.Detect("Lidl lohnt sich"))
}

func TestParse_FullReceipt(t *testing.T) {
	receipt, err := edekaparser.Parse(sampleReceipt)
	require.NoError(t, err)

	assert.Equal(t, "EDEKA", receipt.StoreName)
	assert.Equal(t, "Marktplatz 3, 54321 Musterstadt", receipt.StoreAddress)
	assert.Equal(t, "15.06.2024", receipt.PurchaseDate)

	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "Gouda", receipt.Items[0].Name)
	assert.Equal(t, "Tomaten", receipt.Items[1].Name)

	assert.Equal(t, "3.68", receipt.TotalAmount.StringFixed(2))
	assert.Equal(t, models.TotalExplicit, receipt.TotalSource)
	assert.False(t, receipt.DiscrepancyDetected)

	require.Contains(t, receipt.TaxDetails, "B")
	assert.Equal(t, "3.68", receipt.TaxDetails["B"].Gross.StringFixed(2))
}

func TestParse_MissingTelMarkerStillFindsItems(t *testing.T) {
	ocr := `EDEKA
Brot 2,49 B
Summe 2,49
`
	receipt, err := edekaparser.Parse(ocr)
	require.NoError(t, err)

	// The first item line ends the address block even without "Tel.".
	assert.Empty(t, receipt.StoreAddress)
	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "Brot", receipt.Items[0].Name)
	assert.Equal(t, "2.49", receipt.TotalAmount.StringFixed(2))
}

func TestParse_NoItemsIsValidationError(t *testing.T) {
	_, err := edekaparser.Parse("EDEKA\nTel. 0651-12345\nSumme 0,00\n")
	require.Error(t, err)

	var validationErr *parsererror.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "EDEKA", validationErr.Vendor)
}
