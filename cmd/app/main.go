package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	jwtware "github.com/gofiber/jwt/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/Anshvats70/rozana-ondc-sub000/internal/address"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/cart"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/checkout"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/config"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/issue"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/location"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/ondc"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/order"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/returns"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/search"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/session"
	"github.com/Anshvats70/rozana-ondc-sub000/internal/user"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	app := fiber.New()
	setupCORS(app)

	// session store: redis when configured, in-process otherwise
	var store session.Store
	if cfg.RedisAddr != "" {
		store = session.NewRedisStore(cfg.RedisAddr)
		log.Printf("session store: redis at %s", cfg.RedisAddr)
	} else {
		store = session.NewMemoryStore()
		log.Printf("session store: in-memory")
	}

	// user/address repositories: postgres when configured
	var userRepo user.Repository = user.NewInMemoryRepository(nil)
	var addressRepo address.Repository = address.NewInMemoryRepository(nil)
	if cfg.DatabaseURL != "" {
		db := mustOpenDB(cfg.DatabaseURL)
		defer db.Close()
		ensureSchema(db)
		userRepo = user.NewPostgresRepository(db)
		addressRepo = address.NewPostgresRepository(db)
	} else {
		log.Printf("DATABASE_URL not set, using in-memory repositories")
	}

	builder := ondc.NewBuilder(cfg, store)
	client := ondc.NewClient(cfg.SellerURL, cfg.UpdateRetries, cfg.UpdateBackoff)

	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService, store)

	cartService := cart.NewService(store)
	searchService := search.NewService(store, builder, client, cfg.OrderAPIURL,
		cfg.SearchSettleDelay, cfg.SearchPollRetries, cfg.SearchPollDelay)
	orderService := order.NewService(store, builder, client, cfg.OrderAPIURL, cfg.ProxyAPIURL, cfg.AltAPIURL)
	checkoutService := checkout.NewService(store, builder, client, cartService)
	returnsService := returns.NewService(store, builder, client, cfg.OrderAPIURL)
	issueService := issue.NewService(store, builder, client, orderService, cfg.OrderAPIURL)
	locationService := location.NewService(store, cfg.NominatimURL, cfg.GoogleGeoURL, cfg.GoogleKey)
	addressService := address.NewService(addressRepo)

	userHandler.RegisterPublicRoutes(app)

	app.Use(logMiddleware)
	app.Use(jwtware.New(jwtware.Config{
		SigningKey: []byte(cfg.JWTSecret),
	}))

	userHandler.RegisterProtectedRoutes(app)
	search.NewHandler(searchService).RegisterProtectedRoutes(app)
	cart.NewHandler(cartService).RegisterProtectedRoutes(app)
	checkout.NewHandler(checkoutService).RegisterProtectedRoutes(app)
	order.NewHandler(orderService).RegisterProtectedRoutes(app)
	returns.NewHandler(returnsService).RegisterProtectedRoutes(app)
	issue.NewHandler(issueService).RegisterProtectedRoutes(app)
	location.NewHandler(locationService).RegisterProtectedRoutes(app)
	address.NewHandler(addressService, store).RegisterProtectedRoutes(app)

	log.Printf("listening on %s", cfg.Addr)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
}

func mustOpenDB(dbURL string) *sql.DB {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		panic(err)
	}
	if err := db.Ping(); err != nil {
		panic(err)
	}
	return db
}

func ensureSchema(db *sql.DB) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS users (
		user_id SERIAL PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		first_name TEXT,
		last_name TEXT,
		phone TEXT,
		created_at TEXT,
		updated_at TEXT
	)`); err != nil {
		panic(err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS address (
		address_id SERIAL PRIMARY KEY,
		user_id INT NOT NULL,
		name TEXT,
		phone TEXT,
		building TEXT,
		street TEXT,
		city TEXT,
		state TEXT,
		pincode TEXT,
		lat DOUBLE PRECISION DEFAULT 0,
		lng DOUBLE PRECISION DEFAULT 0,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT,
		updated_at TEXT
	)`); err != nil {
		panic(err)
	}
}

func logMiddleware(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()
	fmt.Printf("URL = %s, Method = %s, Duration = %v\n", c.OriginalURL(), c.Method(), time.Since(start))
	return err
}
