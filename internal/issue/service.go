package issue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/checkout"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/order"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

var ErrNoOrder = errors.New("no order to raise an issue against")

// Request is the buyer's complaint form.
type Request struct {
	Type        string `json:"type"`
	Subject     string `json:"subject"`
	Description string `json:"description"`
	Priority    string `json:"priority"` // P1 or P2; defaults to P2
}

// Result reports how far the grievance got. A transport failure on the
// issue POST is not treated as a definite rejection: the request may
// have reached the network gateway even though no response came back,
// so the issue is recorded locally with network_status "unverified". A
// non-2xx answer or an explicit NACK is a real rejection and fails the
// call.
type Result struct {
	IssueID       string `json:"issue_id"`
	Status        string `json:"status"`         // "raised"
	NetworkStatus string `json:"network_status"` // "ok" or "unverified"
	Message       string `json:"message,omitempty"`
}

// EvidenceResult reports an evidence upload attached to an open issue.
type EvidenceResult struct {
	IssueID string `json:"issue_id"`
	Status  string `json:"status"` // "uploaded"
	URL     string `json:"url,omitempty"`
}

// Service builds and submits IGM issues, then flags the order document.
type Service struct {
	store   session.Store
	builder *ondc.Builder
	client  *ondc.Client
	orders  *order.Service

	httpc  *http.Client
	apiURL string
}

func NewService(store session.Store, builder *ondc.Builder, client *ondc.Client, orders *order.Service, apiURL string) *Service {
	return &Service{
		store:   store,
		builder: builder,
		client:  client,
		orders:  orders,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		apiURL:  apiURL,
	}
}

// Raise submits the complaint. The issue-raised flag on the order API
// is best-effort; its failure never undoes a raised issue.
func (s *Service) Raise(ctx context.Context, sid string, req Request) (Result, error) {
	class, err := Classify(req.Type)
	if err != nil {
		return Result{}, err
	}

	var cached order.Confirmation
	ok, _ := session.GetJSON(ctx, s.store, sid, session.KeyOrderConfirmation, &cached)
	if !ok || cached.OndcOrderID == "" {
		return Result{}, ErrNoOrder
	}

	envCtx, err := s.builder.Build(ctx, sid, ondc.ActionIssue)
	if err != nil {
		return Result{}, err
	}

	payload := s.buildIssue(ctx, sid, envCtx, cached, class, req)

	res := Result{IssueID: payload.ID, Status: "raised", NetworkStatus: "ok"}

	var ireq ondc.IssueRequest
	ireq.Context = envCtx
	ireq.Message.Issue = payload
	if _, err := s.client.Issue(ctx, ireq); err != nil {
		var serr *ondc.StatusError
		if errors.As(err, &serr) || errors.Is(err, ondc.ErrNACK) {
			return Result{}, err
		}
		// could not verify delivery, the gateway may still have it
		res.NetworkStatus = "unverified"
		res.Message = "issue recorded; network delivery unverified"
		log.Printf("issue: delivery unverified for %s (transport: %v)", payload.ID, err)
	}

	if err := s.orders.MarkIssueRaised(ctx, sid); err != nil {
		log.Printf("issue: flagging order failed: %v", err)
	}
	return res, nil
}

func (s *Service) buildIssue(ctx context.Context, sid string, envCtx ondc.Context, cached order.Confirmation, class classification, req Request) ondc.Issue {
	var delivery checkout.DeliveryInfo
	_, _ = session.GetJSON(ctx, s.store, sid, session.KeyDeliveryInfo, &delivery)

	subject := req.Subject
	if subject == "" {
		subject = class.ShortDesc
	}
	priority := req.Priority
	if priority == "" {
		priority = "P2"
	}

	iss := ondc.Issue{
		ID:          s.builder.NewID(),
		Category:    class.Category,
		SubCategory: class.SubCategory,
		Level:       "ISSUE",
		Status:      "OPEN",
		Priority:    priority,
		CreatedAt:   envCtx.Timestamp,
		UpdatedAt:   envCtx.Timestamp,
		Refs: []ondc.IssueRef{
			{RefID: cached.OndcOrderID, RefType: "ORDER"},
			{RefID: envCtx.TransactionID, RefType: "TRANSACTION"},
		},
		Descriptor: ondc.Descriptor{
			Code:      class.SubCategory,
			ShortDesc: subject,
			LongDesc:  req.Description,
		},
	}
	iss.ExpectedResponseTime.Duration = "PT2H"
	iss.ExpectedResolutionTime.Duration = "P1D"

	complainant := ondc.IssueActor{ID: envCtx.BapID, Type: "CONSUMER"}
	complainant.Info.Name = delivery.Name
	complainant.Info.Contact = ondc.Contact{Phone: delivery.Phone, Email: delivery.Email}
	respondent := ondc.IssueActor{ID: envCtx.BppID, Type: "SELLER"}
	iss.Actors = []ondc.IssueActor{complainant, respondent}

	iss.Actions = []ondc.IssueAction{{
		ID:         s.builder.NewID(),
		Descriptor: ondc.Descriptor{Code: "OPEN", ShortDesc: "Complaint raised"},
		UpdatedAt:  envCtx.Timestamp,
		ActionBy:   envCtx.BapID,
	}}
	return iss
}

// UploadEvidence forwards a supporting file for an open issue to the
// grievance endpoint as a multipart form. Unlike the issue POST this is
// all-or-nothing: without a confirmed upload there is no evidence.
func (s *Service) UploadEvidence(ctx context.Context, sid, issueID, filename string, file io.Reader) (EvidenceResult, error) {
	if issueID == "" {
		return EvidenceResult{}, errors.New("issue id is required")
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("issue_id", issueID); err != nil {
		return EvidenceResult{}, err
	}
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return EvidenceResult{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return EvidenceResult{}, err
	}
	if err := form.Close(); err != nil {
		return EvidenceResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+"/issues/upload-additional-info", &body)
	if err != nil {
		return EvidenceResult{}, err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := s.httpc.Do(req)
	if err != nil {
		return EvidenceResult{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return EvidenceResult{}, fmt.Errorf("evidence upload returned %d", resp.StatusCode)
	}

	res := EvidenceResult{IssueID: issueID, Status: "uploaded"}
	var reply struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&reply); err == nil {
		res.URL = reply.URL
	}
	return res, nil
}
