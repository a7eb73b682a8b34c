package checkout

import (
	"context"
	"fmt"
	"log"
	"regexp"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/cart"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/order"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

var pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// Service drives the select→init→confirm leg. All three calls share
// the transaction id minted at search time; the session tracks which
// step last completed so the sequence can't run out of order.
type Service struct {
	store   session.Store
	builder *ondc.Builder
	client  *ondc.Client
	cart    *cart.Service
}

func NewService(store session.Store, builder *ondc.Builder, client *ondc.Client, cartSvc *cart.Service) *Service {
	return &Service{store: store, builder: builder, client: client, cart: cartSvc}
}

func (s *Service) step(ctx context.Context, sid string) string {
	var step string
	_, _ = session.GetJSON(ctx, s.store, sid, session.KeyLifecycleStep, &step)
	return step
}

func (s *Service) setStep(ctx context.Context, sid, step string) error {
	return session.SetJSON(ctx, s.store, sid, session.KeyLifecycleStep, step)
}

// Select submits one (item, provider) pair. A pair already in the
// session's selected set is a local no-op: the caller gets an
// informational result and no network call happens.
func (s *Service) Select(ctx context.Context, sid, itemID, providerID string, qty int) (SelectResult, error) {
	if qty < 1 {
		qty = 1
	}

	var selected []string
	if _, err := session.GetJSON(ctx, s.store, sid, session.KeySelectedItems, &selected); err != nil {
		return SelectResult{}, err
	}

	key := fmt.Sprintf("%s_%s", itemID, providerID)
	for _, k := range selected {
		if k == key {
			return SelectResult{AlreadySelected: true, Message: "item already selected for this order"}, nil
		}
	}

	envCtx, err := s.builder.Build(ctx, sid, ondc.ActionSelect)
	if err != nil {
		return SelectResult{}, err
	}

	var req ondc.SelectRequest
	req.Context = envCtx
	req.Message.Order = ondc.DraftOrder{
		Provider: ondc.Provider{ID: providerID},
		Items:    []ondc.OrderItem{{ID: itemID, Quantity: ondc.Quantity{Count: qty}}},
	}

	if _, err := s.client.Select(ctx, req); err != nil {
		return SelectResult{}, err
	}

	selected = append(selected, key)
	if err := session.SetJSON(ctx, s.store, sid, session.KeySelectedItems, selected); err != nil {
		return SelectResult{}, err
	}
	if err := s.setStep(ctx, sid, stepSelect); err != nil {
		return SelectResult{}, err
	}
	return SelectResult{}, nil
}

// Init builds the full order draft and submits it. The items come from
// the cart-confirmation document when one is cached, falling back to
// the raw cart. On success the envelope timestamp is stored for
// confirm to reuse and the delivery info is persisted. Failure is left
// to the caller for manual retry.
func (s *Service) Init(ctx context.Context, sid string, delivery DeliveryInfo) error {
	if stepRank[s.step(ctx, sid)] < stepRank[stepSelect] {
		return ErrOutOfOrder
	}
	if err := validateDelivery(delivery); err != nil {
		return err
	}

	items, providerID, codOnly, err := s.draftItems(ctx, sid)
	if err != nil {
		return err
	}

	envCtx, err := s.builder.Build(ctx, sid, ondc.ActionInit)
	if err != nil {
		return err
	}

	var req ondc.InitRequest
	req.Context = envCtx
	req.Message.Order = s.draftOrder(items, providerID, delivery, codOnly)

	if _, err := s.client.Init(ctx, req); err != nil {
		return err
	}

	if err := session.SetJSON(ctx, s.store, sid, session.KeyInitTimestamp, envCtx.Timestamp); err != nil {
		return err
	}
	if err := session.SetJSON(ctx, s.store, sid, session.KeyDeliveryInfo, delivery); err != nil {
		return err
	}
	return s.setStep(ctx, sid, stepInit)
}

// Confirm finalizes the order after the payment leg. The items array
// is guaranteed non-empty: cart confirmation first, raw cart second,
// and a single default line as the last resort — an empty order is
// never sent. On success the cart and selection state are cleared; the
// transaction id stays for the confirmation screen to query by.
func (s *Service) Confirm(ctx context.Context, sid string, payment PaymentDetails) (ConfirmResult, error) {
	if stepRank[s.step(ctx, sid)] < stepRank[stepInit] {
		return ConfirmResult{}, ErrOutOfOrder
	}

	items, providerID, codOnly, err := s.draftItems(ctx, sid)
	if err != nil {
		return ConfirmResult{}, err
	}
	if len(items) == 0 {
		log.Printf("checkout: confirm for session %s with no items anywhere, using default line", sid)
		items = []ondc.OrderItem{{ID: "default-item", Quantity: ondc.Quantity{Count: 1}}}
	}

	var delivery DeliveryInfo
	_, _ = session.GetJSON(ctx, s.store, sid, session.KeyDeliveryInfo, &delivery)

	envCtx, err := s.builder.Build(ctx, sid, ondc.ActionConfirm)
	if err != nil {
		return ConfirmResult{}, err
	}

	var req ondc.ConfirmRequest
	req.Context = envCtx
	req.Message.Order = ondc.ConfirmOrder{
		DraftOrder: s.draftOrder(items, providerID, delivery, codOnly),
		State:      "Created",
		CreatedAt:  envCtx.Timestamp,
		UpdatedAt:  envCtx.Timestamp,
	}
	req.Message.Order.Payment = paymentBlock(payment)

	if _, err := s.client.Confirm(ctx, req); err != nil {
		return ConfirmResult{}, err
	}

	// order placed: the cart and per-transaction selection state are done
	if err := s.cart.Clear(ctx, sid); err != nil {
		log.Printf("checkout: clearing cart after confirm failed: %v", err)
	}
	_ = s.store.Delete(ctx, sid, session.KeySelectedItems)
	if err := s.setStep(ctx, sid, stepConfirm); err != nil {
		return ConfirmResult{}, err
	}

	return ConfirmResult{TransactionID: envCtx.TransactionID, Message: "order confirmed"}, nil
}

// draftItems resolves the items for init/confirm: the server-sourced
// cart confirmation wins over the raw cart, because the confirmation
// carries the quantities the network actually quoted.
func (s *Service) draftItems(ctx context.Context, sid string) ([]ondc.OrderItem, string, bool, error) {
	var conf order.Confirmation
	ok, err := session.GetJSON(ctx, s.store, sid, session.KeyCartConfirmation, &conf)
	if err != nil {
		return nil, "", false, err
	}
	if ok && len(conf.Items) > 0 {
		items := make([]ondc.OrderItem, 0, len(conf.Items))
		for _, it := range conf.Items {
			items = append(items, ondc.OrderItem{ID: it.ItemID, Quantity: ondc.Quantity{Count: it.Quantity}})
		}
		return items, conf.ProviderID, conf.PaymentMode == "COD", nil
	}

	lines, err := s.cart.Lines(ctx, sid)
	if err != nil {
		return nil, "", false, err
	}
	items := make([]ondc.OrderItem, 0, len(lines))
	providerID := ""
	codOnly := false
	for _, l := range lines {
		items = append(items, ondc.OrderItem{ID: l.ID, Quantity: ondc.Quantity{Count: l.Quantity}})
		if providerID == "" {
			providerID = l.ProviderID
		}
		codOnly = l.AvailableOnCOD
	}
	return items, providerID, codOnly, nil
}

func (s *Service) draftOrder(items []ondc.OrderItem, providerID string, delivery DeliveryInfo, codOnly bool) ondc.DraftOrder {
	addr := ondc.Address{
		Name:     delivery.Name,
		Building: delivery.Building,
		Locality: delivery.Street,
		City:     delivery.City,
		State:    delivery.State,
		Country:  "IND",
		AreaCode: delivery.AreaCode,
	}

	payType := "ON-ORDER"
	if codOnly {
		payType = "ON-FULFILLMENT"
	}

	return ondc.DraftOrder{
		Provider: ondc.Provider{ID: providerID},
		Items:    items,
		Billing: &ondc.Billing{
			Name:    delivery.Name,
			Address: addr,
			Phone:   delivery.Phone,
			Email:   delivery.Email,
		},
		Fulfillments: []ondc.Fulfillment{{
			Type: "Delivery",
			End: &ondc.FulfillmentEnd{
				Location: ondc.Location{GPS: delivery.GPS, Address: addr},
				Contact:  ondc.Contact{Phone: delivery.Phone, Email: delivery.Email},
			},
		}},
		Payment: &ondc.Payment{Type: payType},
	}
}

func paymentBlock(p PaymentDetails) *ondc.Payment {
	if p.Mode == "cod" {
		return &ondc.Payment{Type: "ON-FULFILLMENT", Status: "NOT-PAID", CollectedBy: "BPP"}
	}
	return &ondc.Payment{
		Type:                 "ON-ORDER",
		Status:               "PAID",
		CollectedBy:          "BAP",
		TransactionReference: p.TransactionRef,
	}
}

func validateDelivery(d DeliveryInfo) error {
	if d.Name == "" || d.Phone == "" || d.City == "" {
		return ErrMissingFields
	}
	if !pincodeRe.MatchString(d.AreaCode) {
		return fmt.Errorf("%w: pincode must be 6 digits", ErrMissingFields)
	}
	return nil
}
