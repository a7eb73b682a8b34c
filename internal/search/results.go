package search

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Shape tags which upstream response layout a result set was parsed
// from. The results endpoint has gone through several backends and the
// old client sniffed half a dozen layouts; here each known layout is an
// explicit variant and anything else is ShapeUnknown, which renders as
// empty results rather than guessing further.
type Shape string

const (
	ShapeProducts Shape = "products"
	ShapeItems    Shape = "items"
	ShapeData     Shape = "data"
	ShapeArray    Shape = "array"
	ShapeCatalog  Shape = "catalog"
	ShapeResults  Shape = "results"
	ShapeUnknown  Shape = "unknown"
)

// Item is one catalog entry normalized out of whatever shape the
// endpoint returned.
type Item struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Price          string `json:"price"`
	Currency       string `json:"currency,omitempty"`
	Seller         string `json:"seller,omitempty"`
	ProviderID     string `json:"provider_id,omitempty"`
	AvailableOnCOD bool   `json:"available_on_cod"`
	IsReturnable   bool   `json:"is_returnable,omitempty"`
	IsCancellable  bool   `json:"is_cancellable,omitempty"`
	ReturnWindow   string `json:"return_window,omitempty"`
	TimeToShip     string `json:"time_to_ship,omitempty"`
}

type ResultSet struct {
	Shape Shape  `json:"shape"`
	Items []Item `json:"items"`
}

func emptyResults() ResultSet {
	return ResultSet{Shape: ShapeUnknown, Items: []Item{}}
}

// generic item layout used by the flat shapes; ids and prices arrive as
// strings or numbers depending on the backend, so both decode via any.
type rawItem struct {
	ID         any    `json:"id"`
	ItemID     any    `json:"item_id"`
	Name       string `json:"name"`
	Descriptor struct {
		Name string `json:"name"`
	} `json:"descriptor"`
	Price          any    `json:"price"`
	Currency       string `json:"currency"`
	Seller         string `json:"seller"`
	ProviderID     string `json:"provider_id"`
	AvailableOnCOD bool   `json:"available_on_cod"`
	IsReturnable   bool   `json:"is_returnable"`
	IsCancellable  bool   `json:"is_cancellable"`
	ReturnWindow   string `json:"return_window"`
	TimeToShip     string `json:"time_to_ship"`
}

type catalogProbe struct {
	Products []rawItem `json:"products"`
	Items    []rawItem `json:"items"`
	Data     []rawItem `json:"data"`
	Results  []struct {
		Items []rawItem `json:"items"`
	} `json:"results"`
	Message struct {
		Catalog struct {
			Providers []struct {
				ID         string `json:"id"`
				Descriptor struct {
					Name string `json:"name"`
				} `json:"descriptor"`
				Items []struct {
					ID         string `json:"id"`
					Descriptor struct {
						Name string `json:"name"`
					} `json:"descriptor"`
					Price struct {
						Currency string `json:"currency"`
						Value    string `json:"value"`
					} `json:"price"`
				} `json:"items"`
			} `json:"bpp/providers"`
		} `json:"catalog"`
	} `json:"message"`
}

// ParseResults maps a results-endpoint body onto a tagged ResultSet.
// Unrecognized or unparseable bodies come back as ShapeUnknown with no
// items and no error: emptiness is "not ready yet", not a failure.
func ParseResults(raw []byte) ResultSet {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return emptyResults()
	}

	if trimmed[0] == '[' {
		var arr []rawItem
		if err := json.Unmarshal(trimmed, &arr); err != nil || len(arr) == 0 {
			return emptyResults()
		}
		return ResultSet{Shape: ShapeArray, Items: mapRawItems(arr)}
	}

	var probe catalogProbe
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return emptyResults()
	}

	switch {
	case len(probe.Products) > 0:
		return ResultSet{Shape: ShapeProducts, Items: mapRawItems(probe.Products)}
	case len(probe.Items) > 0:
		return ResultSet{Shape: ShapeItems, Items: mapRawItems(probe.Items)}
	case len(probe.Data) > 0:
		return ResultSet{Shape: ShapeData, Items: mapRawItems(probe.Data)}
	case len(probe.Message.Catalog.Providers) > 0:
		out := make([]Item, 0)
		for _, p := range probe.Message.Catalog.Providers {
			for _, it := range p.Items {
				out = append(out, Item{
					ID:         it.ID,
					Name:       it.Descriptor.Name,
					Price:      it.Price.Value,
					Currency:   it.Price.Currency,
					Seller:     p.Descriptor.Name,
					ProviderID: p.ID,
				})
			}
		}
		if len(out) == 0 {
			return emptyResults()
		}
		return ResultSet{Shape: ShapeCatalog, Items: out}
	case len(probe.Results) > 0:
		out := make([]Item, 0)
		for _, r := range probe.Results {
			out = append(out, mapRawItems(r.Items)...)
		}
		if len(out) == 0 {
			return emptyResults()
		}
		return ResultSet{Shape: ShapeResults, Items: out}
	}

	return emptyResults()
}

func mapRawItems(in []rawItem) []Item {
	out := make([]Item, 0, len(in))
	for _, r := range in {
		id := coerceString(r.ID)
		if id == "" {
			id = coerceString(r.ItemID)
		}
		name := r.Name
		if name == "" {
			name = r.Descriptor.Name
		}
		out = append(out, Item{
			ID:             id,
			Name:           name,
			Price:          coerceString(r.Price),
			Currency:       r.Currency,
			Seller:         r.Seller,
			ProviderID:     r.ProviderID,
			AvailableOnCOD: r.AvailableOnCOD,
			IsReturnable:   r.IsReturnable,
			IsCancellable:  r.IsCancellable,
			ReturnWindow:   r.ReturnWindow,
			TimeToShip:     r.TimeToShip,
		})
	}
	return out
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	case map[string]any:
		// price object {currency, value}
		if s, ok := t["value"].(string); ok {
			return s
		}
		if f, ok := t["value"].(float64); ok {
			return coerceString(f)
		}
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
