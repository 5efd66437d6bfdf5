package common_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/common"
	"jweber/bonscan/internal/models"
)

func TestSplitLines_DropsNoiseAndEmpties(t *testing.T) {
	lines := common.SplitLines("REWE\n\n  Bananen 1,99 B  \n|___|\nSUMME 1,99\n")

	assert.Equal(t, []string{"REWE", "Bananen 1,99 B", "SUMME 1,99"}, lines)
}

func TestParseItemLine(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantName  string
		wantPrice string
		wantTax   string
		ok        bool
	}{
		{"with tax class", "Bananen 1,99 B", "Bananen", "1.99", models.TaxClassB, true},
		{"numeric tax class", "Bananen 1,99 2", "Bananen", "1.99", models.TaxClassB, true},
		{"without tax class", "Vollmilch 3,5% 1,09", "Vollmilch 3,5%", "1.09", "", true},
		{"dot decimal", "H-Milch 0.89 A", "H-Milch", "0.89", models.TaxClassA, true},
		{"numeric name rejected", "2,96 1,99", "", "", "", false},
		{"no price", "Bananen", "", "", "", false},
		{"negative price rejected", "Pfand -0,25 A", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := common.ParseItemLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.wantName, item.Name)
			assert.Equal(t, tt.wantPrice, item.TotalPrice.StringFixed(2))
			assert.Equal(t, tt.wantPrice, item.UnitPrice.StringFixed(2))
			assert.Equal(t, tt.wantTax, item.TaxRate)
			assert.Equal(t, "1", item.Quantity.String())
		})
	}
}

func TestApplyWeightLine(t *testing.T) {
	item, ok := common.ParseItemLine("Bananen 1,36 B")
	require.True(t, ok)

	applied := common.ApplyWeightLine("0,688 kg x 1,99 EUR/kg", &item)
	require.True(t, applied)

	assert.Equal(t, "0.688", item.Quantity.String())
	require.NotNil(t, item.PricePerUnit)
	assert.Equal(t, "1.99", item.PricePerUnit.StringFixed(2))
	assert.Equal(t, "1.99", item.UnitPrice.StringFixed(2))
	// The printed line total stays authoritative.
	assert.Equal(t, "1.36", item.TotalPrice.StringFixed(2))

	assert.False(t, common.ApplyWeightLine("Bananen 1,99 B", &item))
}

func TestApplyQuantityLine(t *testing.T) {
	item, ok := common.ParseItemLine("Joghurt 1,77 B")
	require.True(t, ok)

	applied := common.ApplyQuantityLine("3 x 0,59", &item)
	require.True(t, applied)

	assert.Equal(t, "3", item.Quantity.String())
	assert.Equal(t, "0.59", item.UnitPrice.StringFixed(2))
	assert.Equal(t, "1.77", item.TotalPrice.StringFixed(2))
}

func TestParseTaxLine(t *testing.T) {
	detail, ok := common.ParseTaxLine("A= 19,0% 10,50 2,00 12,50")
	require.True(t, ok)
	assert.Equal(t, "A", detail.Rate)
	assert.Equal(t, "10.50", detail.Net.StringFixed(2))
	assert.Equal(t, "2.00", detail.Tax.StringFixed(2))
	assert.Equal(t, "12.50", detail.Gross.StringFixed(2))

	detail, ok = common.ParseTaxLine("7,0 % 2,80 0,20 3,00")
	require.True(t, ok)
	assert.Equal(t, "7.0", detail.Rate)

	// A zero-rated class prints 0,00 in the tax column and is still a
	// valid breakdown line.
	detail, ok = common.ParseTaxLine("= 0,0% 3,10 0,00 3,10")
	require.True(t, ok)
	assert.Equal(t, "0.0", detail.Rate)
	assert.Equal(t, "3.10", detail.Net.StringFixed(2))
	assert.Equal(t, "0.00", detail.Tax.StringFixed(2))
	assert.Equal(t, "3.10", detail.Gross.StringFixed(2))

	_, ok = common.ParseTaxLine("Bananen 1,99 B")
	assert.False(t, ok)
}

func TestExtractTotal(t *testing.T) {
	total, ok := common.ExtractTotal("SUMME EUR 23,45", []string{"SUMME"})
	require.True(t, ok)
	assert.Equal(t, "23.45", total.StringFixed(2))

	// The total is the last price token on the line.
	total, ok = common.ExtractTotal("zu zahlen 2 x 11,00 22,00", []string{"zu zahlen"})
	require.True(t, ok)
	assert.Equal(t, "22.00", total.StringFixed(2))

	_, ok = common.ExtractTotal("Bananen 1,99 B", []string{"SUMME"})
	assert.False(t, ok)

	_, ok = common.ExtractTotal("SUMME", []string{"SUMME"})
	assert.False(t, ok)
}

func TestExtractDate(t *testing.T) {
	assert.Equal(t, "14.03.2024", common.ExtractDate([]string{"Datum: 14.03.2024 Uhrzeit 12:01"}))
	assert.Equal(t, "14.03.2024", common.ExtractDate([]string{"kein Datum", "14.03.24 12:01"}))
	assert.Equal(t, "", common.ExtractDate([]string{"kein Datum"}))
}

func TestIsNoiseLine(t *testing.T) {
	noise := []string{
		"EC-Karte 23,45",
		"Girocard",
		"Bar 50,00",
		"Rückgeld 26,55",
		"Tel. 030/1234567",
		"www.rewe.de",
	}
	for _, line := range noise {
		assert.True(t, common.IsNoiseLine(line), "line=%q", line)
	}

	assert.False(t, common.IsNoiseLine("Bananen 1,99 B"))
}
