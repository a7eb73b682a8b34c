package location

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

func TestReverseGeocodeFieldFallbacks(t *testing.T) {
	// rural-style answer: no road or city, only coarser fields
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"display_name": "Some Footway, Khandwa, Madhya Pradesh, 450001, India",
			"address": {
				"footway": "Some Footway",
				"house_number": "12",
				"village": "Khandwa",
				"postcode": "450001"
			}
		}`))
	}))
	defer nominatim.Close()

	store := session.NewMemoryStore()
	svc := NewService(store, nominatim.URL, "", "")

	place, err := svc.ReverseGeocode(context.Background(), "s1", 21.82, 76.35)
	if err != nil {
		t.Fatal(err)
	}
	if place.Street != "Some Footway" {
		t.Fatalf("street fallback: got %q", place.Street)
	}
	if place.Building != "12" {
		t.Fatalf("building fallback: got %q", place.Building)
	}
	if place.City != "Khandwa" {
		t.Fatalf("city fallback: got %q", place.City)
	}
	if place.Pincode != "450001" {
		t.Fatalf("pincode: got %q", place.Pincode)
	}
	// state absent from the address block, recovered from display_name
	if place.State != "Madhya Pradesh" {
		t.Fatalf("state heuristic: got %q", place.State)
	}

	// the picked point is remembered for the session
	var coords Coordinates
	if ok, _ := session.GetJSON(context.Background(), store, "s1", session.KeyUserCoordinates, &coords); !ok {
		t.Fatal("coordinates should be persisted")
	}
	if coords.Lat != 21.82 || coords.Lng != 76.35 {
		t.Fatalf("persisted coordinates wrong: %+v", coords)
	}
}

func TestSearchByPostalCodeValidation(t *testing.T) {
	svc := NewService(session.NewMemoryStore(), "http://unused.invalid", "", "")
	for _, bad := range []string{"", "1234", "12345a", "1100111"} {
		if _, err := svc.SearchByPostalCode(context.Background(), bad); err != ErrBadPincode {
			t.Fatalf("%q: expected ErrBadPincode, got %v", bad, err)
		}
	}
}

func TestSearchByPostalCodePrimaryFailureFallsBack(t *testing.T) {
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("postalcode") != "110011" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write([]byte(`[{"lat":"28.59","lon":"77.20","display_name":"Connaught Place, New Delhi, Delhi, 110011, India"}]`))
	}))
	defer nominatim.Close()

	// google key set but the endpoint is unreachable: the primary must
	// fail quietly and the secondary must answer
	svc := NewService(session.NewMemoryStore(), nominatim.URL, "http://127.0.0.1:1/geocode", "some-key")

	place, err := svc.SearchByPostalCode(context.Background(), "110011")
	if err != nil {
		t.Fatalf("secondary lookup should have served: %v", err)
	}
	if place.Lat != 28.59 || place.Lng != 77.20 {
		t.Fatalf("unexpected point: %+v", place)
	}
	if place.FormattedAddress == "" {
		t.Fatal("formatted address must be populated")
	}
	if place.State != "Delhi" {
		t.Fatalf("state heuristic: got %q", place.State)
	}
}

func TestSearchByPostalCodeGooglePrimary(t *testing.T) {
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "some-key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(`{
			"status": "OK",
			"results": [{
				"formatted_address": "New Delhi, Delhi 110011, India",
				"geometry": {"location": {"lat": 28.6, "lng": 77.2}},
				"address_components": [
					{"long_name": "New Delhi", "types": ["locality"]},
					{"long_name": "Delhi", "types": ["administrative_area_level_1"]}
				]
			}]
		}`))
	}))
	defer google.Close()

	svc := NewService(session.NewMemoryStore(), "http://unused.invalid", google.URL, "some-key")

	place, err := svc.SearchByPostalCode(context.Background(), "110011")
	if err != nil {
		t.Fatal(err)
	}
	if place.City != "New Delhi" || place.State != "Delhi" {
		t.Fatalf("component mapping: %+v", place)
	}
	if place.Lat != 28.6 || place.Lng != 77.2 {
		t.Fatalf("unexpected point: %+v", place)
	}
}

func TestSearchByPostalCodeNoKeySkipsGoogle(t *testing.T) {
	var googleHit bool
	google := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		googleHit = true
	}))
	defer google.Close()
	nominatim := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"lat":"28.59","lon":"77.20","display_name":"New Delhi, Delhi, 110011, India"}]`))
	}))
	defer nominatim.Close()

	svc := NewService(session.NewMemoryStore(), nominatim.URL, google.URL, "")

	if _, err := svc.SearchByPostalCode(context.Background(), "110011"); err != nil {
		t.Fatal(err)
	}
	if googleHit {
		t.Fatal("google must not be called without a key")
	}
}
