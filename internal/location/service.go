package location

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

var pincodeRe = regexp.MustCompile(`^[0-9]{6}$`)

// Service resolves coordinates and pincodes to address fields. Reverse
// geocoding goes to Nominatim; pincode lookup tries the Google geocode
// API first when a key is configured and falls through to Nominatim on
// any primary failure, so a dead key or quota never blanks the form.
type Service struct {
	store session.Store
	httpc *http.Client

	nominatimURL string
	googleURL    string
	googleKey    string
}

func NewService(store session.Store, nominatimURL, googleURL, googleKey string) *Service {
	return &Service{
		store:        store,
		httpc:        &http.Client{Timeout: 10 * time.Second},
		nominatimURL: nominatimURL,
		googleURL:    googleURL,
		googleKey:    googleKey,
	}
}

type nominatimReverse struct {
	DisplayName string `json:"display_name"`
	Address     struct {
		Road        string `json:"road"`
		Pedestrian  string `json:"pedestrian"`
		Footway     string `json:"footway"`
		HouseNumber string `json:"house_number"`
		Building    string `json:"building"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
		County      string `json:"county"`
		State       string `json:"state"`
		Postcode    string `json:"postcode"`
	} `json:"address"`
}

// ReverseGeocode turns a point into address fields and remembers the
// point for the session. Each field has ordered fallbacks because
// Nominatim's address block varies a lot between urban and rural
// results.
func (s *Service) ReverseGeocode(ctx context.Context, sid string, lat, lng float64) (Place, error) {
	if err := session.SetJSON(ctx, s.store, sid, session.KeyUserCoordinates, Coordinates{Lat: lat, Lng: lng}); err != nil {
		log.Printf("location: persisting coordinates failed: %v", err)
	}

	q := url.Values{}
	q.Set("format", "json")
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lng, 'f', -1, 64))

	var rev nominatimReverse
	if err := s.getJSON(ctx, s.nominatimURL+"/reverse?"+q.Encode(), &rev); err != nil {
		return Place{}, err
	}

	a := rev.Address
	p := Place{
		Street:           first(a.Road, a.Pedestrian, a.Footway),
		Building:         first(a.HouseNumber, a.Building),
		City:             first(a.City, a.Town, a.Village, a.County),
		State:            a.State,
		Pincode:          a.Postcode,
		FormattedAddress: rev.DisplayName,
		Lat:              lat,
		Lng:              lng,
	}
	if p.State == "" {
		p.State = stateFromDisplayName(rev.DisplayName)
	}
	return p, nil
}

// SearchByPostalCode resolves a 6-digit pincode to a point and a
// formatted address.
func (s *Service) SearchByPostalCode(ctx context.Context, pincode string) (Place, error) {
	if !pincodeRe.MatchString(pincode) {
		return Place{}, ErrBadPincode
	}

	if s.googleKey != "" {
		p, err := s.googleLookup(ctx, pincode)
		if err == nil {
			return p, nil
		}
		log.Printf("location: google lookup for %s failed (%v), falling back to nominatim", pincode, err)
	}
	return s.nominatimLookup(ctx, pincode)
}

type googleGeocode struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
}

func (s *Service) googleLookup(ctx context.Context, pincode string) (Place, error) {
	q := url.Values{}
	q.Set("address", pincode+",India")
	q.Set("key", s.googleKey)

	var geo googleGeocode
	if err := s.getJSON(ctx, s.googleURL+"?"+q.Encode(), &geo); err != nil {
		return Place{}, err
	}
	if geo.Status != "OK" || len(geo.Results) == 0 {
		return Place{}, fmt.Errorf("google geocode status %q", geo.Status)
	}

	r := geo.Results[0]
	p := Place{
		Pincode:          pincode,
		FormattedAddress: r.FormattedAddress,
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
	}
	for _, comp := range r.AddressComponents {
		for _, typ := range comp.Types {
			switch typ {
			case "locality":
				p.City = comp.LongName
			case "administrative_area_level_1":
				p.State = comp.LongName
			}
		}
	}
	return p, nil
}

type nominatimSearchHit struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (s *Service) nominatimLookup(ctx context.Context, pincode string) (Place, error) {
	q := url.Values{}
	q.Set("postalcode", pincode)
	q.Set("country", "India")
	q.Set("format", "json")

	var hits []nominatimSearchHit
	if err := s.getJSON(ctx, s.nominatimURL+"/search?"+q.Encode(), &hits); err != nil {
		return Place{}, err
	}
	if len(hits) == 0 {
		return Place{}, ErrNoMatch
	}

	h := hits[0]
	lat, _ := strconv.ParseFloat(h.Lat, 64)
	lng, _ := strconv.ParseFloat(h.Lon, 64)
	return Place{
		Pincode:          pincode,
		FormattedAddress: h.DisplayName,
		State:            stateFromDisplayName(h.DisplayName),
		Lat:              lat,
		Lng:              lng,
	}, nil
}

func (s *Service) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "rozana-buyer-app/1.0")

	resp, err := s.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoder returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func first(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// stateFromDisplayName digs the state out of a comma-separated display
// name: the third-from-last segment in Nominatim's usual
// "..., State, Pincode, Country" layout.
func stateFromDisplayName(name string) string {
	parts := strings.Split(name, ",")
	if len(parts) < 3 {
		return ""
	}
	return strings.TrimSpace(parts[len(parts)-3])
}
