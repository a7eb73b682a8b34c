package address

import (
	"context"
	"io"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
)

func makeAppWithAddressHandler(a *Handler) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if v := c.Get("X-User-ID"); v != "" {
			id, err := strconv.Atoi(v)
			if err == nil {
				claims := jwt.MapClaims{"user_id": id}
				tok := &jwt.Token{Claims: claims}
				c.Locals("user", tok)
			}
		}
		return c.Next()
	})
	a.RegisterProtectedRoutes(app)
	return app
}

func TestAddressRoute(t *testing.T) {
	seed := map[int][]Address{
		42: {{AddressID: 1, UserID: 42, Name: "Home", Street: "MG Road", City: "New Delhi", State: "Delhi", Pincode: "110011", Phone: "9999999999", IsDefault: true}},
	}
	repo := NewInMemoryRepository(seed)
	svc := NewService(repo)
	store := session.NewMemoryStore()
	handler := NewHandler(svc, store)
	app := makeAppWithAddressHandler(handler)

	// unauthorized
	req := httptest.NewRequest("GET", "/api/v1/address", nil)
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.StatusCode)
	}

	// authorized GET returns existing
	req2 := httptest.NewRequest("GET", "/api/v1/address", nil)
	req2.Header.Set("X-User-ID", "42")
	res2, _ := app.Test(req2)
	if res2.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res2.StatusCode)
	}
	b, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b), "MG Road") {
		t.Fatalf("unexpected body: %s", string(b))
	}

	// POST new address
	req3 := httptest.NewRequest("POST", "/api/v1/address",
		strings.NewReader(`{"name":"Office","street":"Ring Road","city":"New Delhi","state":"Delhi","pincode":"110022","phone":"8888888888"}`))
	req3.Header.Set("Content-Type", "application/json")
	req3.Header.Set("X-User-ID", "42")
	res3, _ := app.Test(req3)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if !strings.Contains(string(b3), "Ring Road") {
		t.Fatalf("add response unexpected: %s", string(b3))
	}

	// update with patch
	req4 := httptest.NewRequest("PATCH", "/api/v1/address",
		strings.NewReader(`{"addressId":2,"name":"Office","street":"Outer Ring Road","city":"New Delhi","state":"Delhi","pincode":"110022","phone":"8888888888"}`))
	req4.Header.Set("Content-Type", "application/json")
	req4.Header.Set("X-User-ID", "42")
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for patch, got %d", res4.StatusCode)
	}
	b4, _ := io.ReadAll(res4.Body)
	if !strings.Contains(string(b4), "Outer Ring Road") {
		t.Fatalf("patch response unexpected: %s", string(b4))
	}

	// delete the newly added address
	req5 := httptest.NewRequest("DELETE", "/api/v1/address", strings.NewReader(`{"addressId":2}`))
	req5.Header.Set("Content-Type", "application/json")
	req5.Header.Set("X-User-ID", "42")
	res5, _ := app.Test(req5)
	if res5.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for delete, got %d", res5.StatusCode)
	}
	req6 := httptest.NewRequest("GET", "/api/v1/address", nil)
	req6.Header.Set("X-User-ID", "42")
	res6, _ := app.Test(req6)
	b6, _ := io.ReadAll(res6.Body)
	if strings.Contains(string(b6), "Outer Ring Road") {
		t.Fatalf("delete did not remove entry: %s", string(b6))
	}
}

func TestAddressValidation(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	handler := NewHandler(NewService(repo), session.NewMemoryStore())
	app := makeAppWithAddressHandler(handler)

	// 5-digit pincode rejected
	req := httptest.NewRequest("POST", "/api/v1/address",
		strings.NewReader(`{"street":"MG Road","city":"New Delhi","pincode":"11001","phone":"9999999999"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for short pincode, got %d", res.StatusCode)
	}
}

func TestFirstAddressBecomesDefaultAndMirrors(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	svc := NewService(repo)
	store := session.NewMemoryStore()
	handler := NewHandler(svc, store)
	app := makeAppWithAddressHandler(handler)

	req := httptest.NewRequest("POST", "/api/v1/address",
		strings.NewReader(`{"name":"Home","street":"MG Road","city":"New Delhi","state":"Delhi","pincode":"110011","phone":"9999999999"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", "7")
	res, _ := app.Test(req)
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}

	def, err := svc.Default(7)
	if err != nil {
		t.Fatal(err)
	}
	if !def.IsDefault {
		t.Fatal("first saved address should be the default")
	}

	var has bool
	if ok, _ := session.GetJSON(context.Background(), store, "7", session.KeyHasAddress, &has); !ok || !has {
		t.Fatal("session should reflect that the user has an address")
	}
	var mirrored Address
	if ok, _ := session.GetJSON(context.Background(), store, "7", session.KeyUserAddress, &mirrored); !ok {
		t.Fatal("default address should be mirrored into the session")
	}
	if mirrored.Street != "MG Road" {
		t.Fatalf("mirrored address unexpected: %+v", mirrored)
	}
}
