package session

import (
	"context"
	"encoding/json"
	"errors"
	"log"
)

// Well-known session keys. Every key is written as a full-value JSON
// overwrite; there is no partial-field update primitive.
const (
	KeyTransactionID     = "currentTransactionId"
	KeyLifecycleStep     = "lifecycleStep"
	KeySelectedItems     = "selectedItems"
	KeyUserCoordinates   = "userCoordinates"
	KeyUserAddressData   = "userAddressData"
	KeyCart              = "ondcCart"
	KeyCartConfirmation  = "cartConfirmation"
	KeyOrderConfirmation = "orderConfirmation"
	KeyDeliveryInfo      = "deliveryInfo"
	KeyInitTimestamp     = "initTimestamp"
	KeyToken             = "token"
	KeyIsLoggedIn        = "isLoggedIn"
	KeyUserSession       = "userSession"
	KeyHasAddress        = "hasAddress"
	KeyUserAddress       = "userAddress"
)

var ErrClosed = errors.New("session store closed")

// Store is a per-session key-value store. Values are opaque strings;
// callers that need structure go through GetJSON/SetJSON. Reads must
// tolerate absence: a missing key is (value "", ok false, nil error).
type Store interface {
	Get(ctx context.Context, sid, key string) (string, bool, error)
	Set(ctx context.Context, sid, key, value string) error
	Delete(ctx context.Context, sid, key string) error
}

// GetJSON loads key and unmarshals it into dst. Absence leaves dst at
// its zero value and reports false. Corrupt stored content is treated
// as absence: logged, never propagated, so a bad write can't take a
// whole request down.
func GetJSON(ctx context.Context, s Store, sid, key string, dst any) (bool, error) {
	raw, ok, err := s.Get(ctx, sid, key)
	if err != nil {
		return false, err
	}
	if !ok || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("session: discarding corrupt value for %s/%s: %v", sid, key, err)
		return false, nil
	}
	return true, nil
}

// SetJSON marshals v and overwrites key with it.
func SetJSON(ctx context.Context, s Store, sid, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.Set(ctx, sid, key, string(b))
}
