package issue

import "errors"

var ErrUnknownType = errors.New("unknown issue type")

// classification maps a storefront complaint type onto the IGM
// category/sub-category codes the network expects.
type classification struct {
	Category    string
	SubCategory string
	ShortDesc   string
}

var taxonomy = map[string]classification{
	"missing-item":   {Category: "ITEM", SubCategory: "ITM01", ShortDesc: "Missing products in the order"},
	"quantity-issue": {Category: "ITEM", SubCategory: "ITM02", ShortDesc: "Received quantity differs from ordered"},
	"wrong-item":     {Category: "ITEM", SubCategory: "ITM03", ShortDesc: "Delivered item does not match the order"},
	"quality-issue":  {Category: "ITEM", SubCategory: "ITM04", ShortDesc: "Item quality is unacceptable"},
	"expired-item":   {Category: "ITEM", SubCategory: "ITM05", ShortDesc: "Item is past its expiry date"},
	"wrong-address":  {Category: "FULFILLMENT", SubCategory: "FLM01", ShortDesc: "Order delivered to the wrong address"},
	"delayed":        {Category: "FULFILLMENT", SubCategory: "FLM02", ShortDesc: "Delivery is delayed"},
	"not-delivered":  {Category: "FULFILLMENT", SubCategory: "FLM03", ShortDesc: "Order marked delivered but not received"},
	"packaging":      {Category: "FULFILLMENT", SubCategory: "FLM04", ShortDesc: "Packaging was damaged"},
	"refund-missing": {Category: "PAYMENT", SubCategory: "PMT01", ShortDesc: "Refund not received"},
	"overcharged":    {Category: "PAYMENT", SubCategory: "PMT03", ShortDesc: "Charged more than the quoted amount"},
}

// Classify resolves a complaint type, or ErrUnknownType.
func Classify(issueType string) (classification, error) {
	c, ok := taxonomy[issueType]
	if !ok {
		return classification{}, ErrUnknownType
	}
	return c, nil
}

// Types lists the accepted complaint types for the form dropdown.
func Types() []string {
	out := make([]string, 0, len(taxonomy))
	for k := range taxonomy {
		out = append(out, k)
	}
	return out
}
