package parser

import (
	"fmt"

	"jweber/bonscan/internal/aldiparser"
	"jweber/bonscan/internal/edekaparser"
	"jweber/bonscan/internal/genericparser"
	"jweber/bonscan/internal/lidlparser"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/reweparser"
)

// VendorType identifies one of the supported receipt formats.
type VendorType string

const (
	REWE    VendorType = "rewe"
	EDEKA   VendorType = "edeka"
	Lidl    VendorType = "lidl"
	Aldi    VendorType = "aldi"
	Generic VendorType = "generic"
)

// detectionOrder is the fixed priority in which vendor signatures are
// checked. Vendor-specific parsers come before the generic fallback.
var detectionOrder = []struct {
	vendor VendorType
	detect func(string) bool
}{
	{REWE, reweparser.Detect},
	{EDEKA, edekaparser.Detect},
	{Lidl, lidlparser.Detect},
	{Aldi, aldiparser.Detect},
}

// DetectVendor scans the OCR text for vendor signatures and returns the
// matching vendor, falling back to Generic when none matches.
func DetectVendor(ocrText string) VendorType {
	for _, entry := range detectionOrder {
		if entry.detect(ocrText) {
			return entry.vendor
		}
	}
	return Generic
}

// GetParser returns a parser instance for the given vendor type.
func GetParser(vendor VendorType) (ReceiptParser, error) {
	switch vendor {
	case REWE:
		return reweparser.NewAdapter(), nil
	case EDEKA:
		return edekaparser.NewAdapter(), nil
	case Lidl:
		return lidlparser.NewAdapter(), nil
	case Aldi:
		return aldiparser.NewAdapter(), nil
	case Generic:
		return genericparser.NewAdapter(), nil
	default:
		return nil, fmt.Errorf("unknown vendor type: %s", vendor)
	}
}

// ParseText detects the vendor and runs the matching parser. This is the
// main entry point for turning OCR text into a structured receipt.
func ParseText(ocrText string) (*models.ParsedReceipt, VendorType, error) {
	vendor := DetectVendor(ocrText)
	p, err := GetParser(vendor)
	if err != nil {
		return nil, vendor, err
	}
	receipt, err := p.Parse(ocrText)
	return receipt, vendor, err
}
