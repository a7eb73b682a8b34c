package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries everything the buyer app reads from the environment.
// ONDC subscriber identity and endpoint bases are configuration, not
// protocol logic, so they all live here.
type Config struct {
	Addr      string
	JWTSecret string

	DatabaseURL string
	RedisAddr   string

	// ONDC subscriber constants injected into every envelope context.
	BAPID       string
	BAPURI      string
	BPPID       string
	BPPURI      string
	Domain      string
	CoreVersion string
	City        string
	Country     string
	TTL         string

	// Endpoint bases.
	SellerURL    string // ONDC action endpoints: {SellerURL}/{action}
	OrderAPIURL  string // buyer-side order database API
	ProxyAPIURL  string // same-origin proxy in front of OrderAPIURL, may be empty
	AltAPIURL    string // alternate host for the orders list, may be empty
	NominatimURL string
	GoogleGeoURL string
	GoogleKey    string

	// Retry knobs.
	SearchSettleDelay time.Duration
	SearchPollRetries int
	SearchPollDelay   time.Duration
	UpdateRetries     int
	UpdateBackoff     time.Duration
}

func Load() Config {
	return Config{
		Addr:      getenv("APP_ADDR", ":8080"),
		JWTSecret: os.Getenv("JWT_SECRET"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),

		BAPID:       getenv("BAP_ID", "buyer-app.rozana.in"),
		BAPURI:      getenv("BAP_URI", "https://buyer-app.rozana.in/ondc"),
		BPPID:       getenv("BPP_ID", "seller-app.rozana.in"),
		BPPURI:      getenv("BPP_URI", "https://seller-app.rozana.in/ondc"),
		Domain:      getenv("ONDC_DOMAIN", "nic2004:52110"),
		CoreVersion: getenv("ONDC_CORE_VERSION", "1.2.0"),
		City:        getenv("ONDC_CITY", "std:011"),
		Country:     getenv("ONDC_COUNTRY", "IND"),
		TTL:         getenv("ONDC_TTL", "PT30S"),

		SellerURL:    getenv("SELLER_URL", "https://seller-app.rozana.in/ondc"),
		OrderAPIURL:  getenv("ORDER_API_URL", "https://order-api.rozana.in"),
		ProxyAPIURL:  os.Getenv("ORDER_PROXY_URL"),
		AltAPIURL:    os.Getenv("ORDER_ALT_URL"),
		NominatimURL: getenv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		GoogleGeoURL: getenv("GOOGLE_GEOCODE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GoogleKey:    os.Getenv("GOOGLE_MAPS_KEY"),

		SearchSettleDelay: getdur("SEARCH_SETTLE_DELAY", time.Second),
		SearchPollRetries: getint("SEARCH_POLL_RETRIES", 10),
		SearchPollDelay:   getdur("SEARCH_POLL_DELAY", 2*time.Second),
		UpdateRetries:     getint("UPDATE_RETRIES", 3),
		UpdateBackoff:     getdur("UPDATE_BACKOFF", 2*time.Second),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
