package returns

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/order"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

// Service runs the two-phase return: first the return is registered
// with the order API (fatal on failure, there is nothing to settle
// without a registered return), then an ONDC update with the payment
// target asks the network to settle the refund. The update leg rides
// the client's bounded retries and its failure is reported, not fatal.
type Service struct {
	store   session.Store
	builder *ondc.Builder
	client  *ondc.Client

	httpc  *http.Client
	apiURL string
}

func NewService(store session.Store, builder *ondc.Builder, client *ondc.Client, apiURL string) *Service {
	return &Service{
		store:   store,
		builder: builder,
		client:  client,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		apiURL:  apiURL,
	}
}

type registration struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Items         []Line `json:"items"`
	Reason        string `json:"reason"`
}

type registrationReply struct {
	ReturnID string `json:"return_id"`
}

// Submit registers the return and then fires the settlement update.
func (s *Service) Submit(ctx context.Context, sid string, req Request) (Result, error) {
	txn, err := s.builder.TransactionID(ctx, sid)
	if err != nil {
		return Result{}, err
	}

	orderID := req.OrderID
	if orderID == "" {
		var cached order.Confirmation
		if ok, _ := session.GetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, &cached); ok {
			orderID = cached.OndcOrderID
		}
	}
	if orderID == "" {
		return Result{}, ErrNoOrder
	}

	returnID, err := s.register(ctx, registration{
		OrderID:       orderID,
		TransactionID: txn,
		Items:         req.Items,
		Reason:        req.Reason,
	})
	if err != nil {
		return Result{}, fmt.Errorf("return registration: %w", err)
	}

	res := Result{Status: "success", OndcStatus: "ok", ReturnID: returnID}

	if err := s.settle(ctx, sid, orderID, req.Items); err != nil {
		res.OndcStatus = "failed"
		res.Message = "return registered; network settlement pending"
		log.Printf("returns: settlement update for %s failed after retries: %v", orderID, err)
	}
	return res, nil
}

func (s *Service) register(ctx context.Context, reg registration) (string, error) {
	body, err := json.Marshal(reg)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/api/return-request", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("order api returned %d", resp.StatusCode)
	}

	var reply registrationReply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		// the id is a convenience, not a requirement
		return "", nil
	}
	return reply.ReturnID, nil
}

func (s *Service) settle(ctx context.Context, sid, orderID string, items []Line) error {
	envCtx, err := s.builder.Build(ctx, sid, ondc.ActionUpdate)
	if err != nil {
		return err
	}

	orderItems := make([]ondc.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, ondc.OrderItem{
			ID:       it.ItemID,
			Quantity: ondc.Quantity{Count: it.Quantity},
		})
	}

	var req ondc.UpdateRequest
	req.Context = envCtx
	req.Message.UpdateTarget = "payment"
	req.Message.Order = ondc.ConfirmOrder{
		ID:         orderID,
		DraftOrder: ondc.DraftOrder{Items: orderItems},
	}

	_, err = s.client.Update(ctx, req)
	return err
}
