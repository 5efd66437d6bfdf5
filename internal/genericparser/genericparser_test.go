package genericparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/genericparser"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parsererror"
)

func TestDetect_AlwaysMatches(t *testing.T) {
	assert.True(t, genericparser.Detect(""))
	assert.True(t, genericparser.Detect("anything at all"))
}

func TestParse_UnknownStoreWithTotal(t *testing.T) {
	ocr := `Supermarkt GmbH
Brot 2,49
Milch 1,09
TOTAL 3,58
21.07.2024
`
	receipt, err := genericparser.Parse(ocr)
	require.NoError(t, err)

	// The sentinel signals the caller to ask for manual store entry.
	assert.Equal(t, models.StoreUnknown, receipt.StoreName)
	assert.False(t, receipt.StoreIdentified())
	assert.Equal(t, "21.07.2024", receipt.PurchaseDate)

	require.Len(t, receipt.Items, 2)
	assert.Equal(t, "3.58", receipt.TotalAmount.StringFixed(2))
	assert.Equal(t, models.TotalExplicit, receipt.TotalSource)
	assert.False(t, receipt.DiscrepancyDetected)
}

func TestParse_NoTotalUsesItemSum(t *testing.T) {
	ocr := `Brot 2,49
Milch 1,09
`
	receipt, err := genericparser.Parse(ocr)
	require.NoError(t, err)

	assert.Equal(t, "3.58", receipt.TotalAmount.StringFixed(2))
	assert.Equal(t, models.TotalCalculated, receipt.TotalSource)
}

func TestParse_QuantityDetailLine(t *testing.T) {
	ocr := `Joghurt 1,77
3 x 0,59
GESAMT 1,77
`
	receipt, err := genericparser.Parse(ocr)
	require.NoError(t, err)

	require.Len(t, receipt.Items, 1)
	assert.Equal(t, "3", receipt.Items[0].Quantity.String())
	assert.Equal(t, "0.59", receipt.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "1.77", receipt.Items[0].TotalPrice.StringFixed(2))
}

func TestParse_NoItemsIsValidationError(t *testing.T) {
	_, err := genericparser.Parse("nur Rauschen, keine Artikel")
	require.Error(t, err)

	var validationErr *parsererror.ValidationError
	require.ErrorAs(t, err, &validationErr)
}
