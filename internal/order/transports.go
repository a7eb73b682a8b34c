package order

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Transport is one named attempt at fetching the orders list. The old
// client tried a same-origin proxy, then a direct request, then
// progressively more desperate workarounds because the upstream API
// did not reliably answer cross-origin requests. Server-side the
// desperation shrinks to alternate hosts plus an embedded last-resort
// dataset, but the ladder stays explicit so a layer can be removed the
// day the upstream is fixed.
type Transport struct {
	Name  string
	Fetch func(ctx context.Context) ([]Confirmation, error)
}

func buildTransports(httpc *http.Client, apiURL, proxyURL, altURL string) []Transport {
	var out []Transport

	httpLayer := func(name, base string) Transport {
		return Transport{
			Name: name,
			Fetch: func(ctx context.Context) ([]Confirmation, error) {
				return fetchList(ctx, httpc, base+"/orders")
			},
		}
	}

	if proxyURL != "" {
		out = append(out, httpLayer("proxy", proxyURL))
	}
	out = append(out, httpLayer("direct", apiURL))
	if altURL != "" {
		out = append(out, httpLayer("alt-host", altURL))
	}

	// last resort: a static dataset so the history screen renders
	// something instead of a blank error
	out = append(out, Transport{
		Name: "static",
		Fetch: func(context.Context) ([]Confirmation, error) {
			return staticFallbackOrders(), nil
		},
	})

	return out
}

func fetchList(ctx context.Context, httpc *http.Client, url string) ([]Confirmation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("orders list returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return parseOrdersList(body)
}

// parseOrdersList accepts the two layouts the API has been seen to
// return: a bare array and an object wrapping it.
func parseOrdersList(body []byte) ([]Confirmation, error) {
	var arr []Confirmation
	if err := json.Unmarshal(body, &arr); err == nil {
		return arr, nil
	}

	var wrapped struct {
		Orders []Confirmation `json:"orders"`
		Data   []Confirmation `json:"data"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("unrecognized orders list payload: %w", err)
	}
	if wrapped.Orders != nil {
		return wrapped.Orders, nil
	}
	if wrapped.Data != nil {
		return wrapped.Data, nil
	}
	return nil, fmt.Errorf("orders list payload had no recognizable collection")
}

func staticFallbackOrders() []Confirmation {
	return []Confirmation{
		{
			TransactionID: "offline-sample",
			OndcOrderID:   "sample-order",
			OrderStatus:   "Completed",
			PaymentMode:   "COD",
			TotalValue:    "0",
			Currency:      "INR",
		},
	}
}
