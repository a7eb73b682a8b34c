package ondc

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/config"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

// ONDC action names.
const (
	ActionSearch  = "search"
	ActionSelect  = "select"
	ActionInit    = "init"
	ActionConfirm = "confirm"
	ActionStatus  = "status"
	ActionTrack   = "track"
	ActionCancel  = "cancel"
	ActionUpdate  = "update"
	ActionIssue   = "issue"
)

var ErrNoTransaction = errors.New("no active transaction")

// Context is the ONDC envelope context block shared by every action.
type Context struct {
	Domain        string `json:"domain"`
	Action        string `json:"action"`
	Country       string `json:"country"`
	City          string `json:"city"`
	CoreVersion   string `json:"core_version"`
	BapID         string `json:"bap_id"`
	BapURI        string `json:"bap_uri"`
	BppID         string `json:"bpp_id,omitempty"`
	BppURI        string `json:"bpp_uri,omitempty"`
	TransactionID string `json:"transaction_id"`
	MessageID     string `json:"message_id"`
	Timestamp     string `json:"timestamp"`
	TTL           string `json:"ttl,omitempty"`
}

// Builder mints envelope contexts. The transaction id comes from the
// session and is never regenerated mid-flow; the message id and
// timestamp are fresh per call. The one exception is confirm, which
// reuses the timestamp stored by init so both envelopes carry the same
// order timestamp, as the network expects.
type Builder struct {
	cfg   config.Config
	store session.Store

	// seams for tests
	Now   func() time.Time
	NewID func() string
}

func NewBuilder(cfg config.Config, store session.Store) *Builder {
	return &Builder{
		cfg:   cfg,
		store: store,
		Now:   time.Now,
		NewID: uuid.NewString,
	}
}

// MintTransaction generates and persists a new transaction id for the
// session. Search is the only caller; every other action reuses what
// the session already holds.
func (b *Builder) MintTransaction(ctx context.Context, sid string) (string, error) {
	txn := b.NewID()
	if err := session.SetJSON(ctx, b.store, sid, session.KeyTransactionID, txn); err != nil {
		return "", err
	}
	return txn, nil
}

// TransactionID returns the session's current transaction id, or
// ErrNoTransaction when no search has started one.
func (b *Builder) TransactionID(ctx context.Context, sid string) (string, error) {
	var txn string
	ok, err := session.GetJSON(ctx, b.store, sid, session.KeyTransactionID, &txn)
	if err != nil {
		return "", err
	}
	if !ok || txn == "" {
		return "", ErrNoTransaction
	}
	return txn, nil
}

// Build assembles a context for the given action. Confirm reads the
// init timestamp from the session; an absent value falls back to the
// current time, which breaks timestamp consistency with init and is
// logged as a degraded path.
func (b *Builder) Build(ctx context.Context, sid, action string) (Context, error) {
	txn, err := b.TransactionID(ctx, sid)
	if err != nil {
		return Context{}, err
	}

	ts := b.Now().UTC().Format(time.RFC3339)
	if action == ActionConfirm {
		var initTS string
		ok, err := session.GetJSON(ctx, b.store, sid, session.KeyInitTimestamp, &initTS)
		if err != nil {
			return Context{}, err
		}
		if ok && initTS != "" {
			ts = initTS
		} else {
			log.Printf("ondc: confirm without stored init timestamp for session %s, using current time", sid)
		}
	}

	return Context{
		Domain:        b.cfg.Domain,
		Action:        action,
		Country:       b.cfg.Country,
		City:          b.cfg.City,
		CoreVersion:   b.cfg.CoreVersion,
		BapID:         b.cfg.BAPID,
		BapURI:        b.cfg.BAPURI,
		BppID:         b.cfg.BPPID,
		BppURI:        b.cfg.BPPURI,
		TransactionID: txn,
		MessageID:     b.NewID(),
		Timestamp:     ts,
		TTL:           b.cfg.TTL,
	}, nil
}
