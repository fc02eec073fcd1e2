package main

import (
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"shoplist/app/auth"
	"shoplist/app/categories"
	"shoplist/app/lists"
	"shoplist/app/products"
	"shoplist/database"
	"shoplist/models"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("no .env file found, relying on system environment")
	}
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		log = log.Level(level)
	}

	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatal().Msg("DB_DSN environment variable is not set")
	}

	db, err := database.Open(dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := models.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}

	listRepo := models.NewShoppingListsRepository(db)
	memberRepo := models.NewMembershipsRepository(db)
	itemRepo := models.NewListProductsRepository(db)
	noteRepo := models.NewNotificationsRepository(db)
	productRepo := models.NewProductsRepository(db)
	categoryRepo := models.NewCategoriesRepository(db)

	listHandler := lists.NewListHandler(log, listRepo, memberRepo, itemRepo, noteRepo)
	productHandler := products.NewProductHandler(productRepo, listRepo)
	categoryHandler := categories.NewCategoryHandler(categoryRepo)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))
	r.Use(auth.Middleware)

	r.Route("/lists", func(r chi.Router) {
		r.Get("/", listHandler.HandleGetAll)
		r.Post("/", listHandler.HandleCreate)
		r.Route("/{listID}", func(r chi.Router) {
			r.Get("/", listHandler.HandleGet)
			r.Put("/", listHandler.HandleUpdate)
			r.Delete("/", listHandler.HandleDelete)
			r.Get("/products", listHandler.HandleGetProducts)
			r.Put("/products/{productID}", listHandler.HandleAttachProduct)
			r.Delete("/products/{productID}", listHandler.HandleDetachProduct)
			r.Get("/members", listHandler.HandleGetMembers)
			r.Post("/members", listHandler.HandleAddMember)
			r.Put("/members/{userID}", listHandler.HandleUpdateMember)
			r.Delete("/members/{userID}", listHandler.HandleRemoveMember)
		})
	})
	r.Get("/notifications", listHandler.HandleNotifications)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.HandleSearch)
		r.Post("/", productHandler.HandleCreate)
		r.Get("/{productID}", productHandler.HandleGet)
		r.Put("/{productID}", productHandler.HandleUpdate)
		r.Delete("/{productID}", productHandler.HandleDelete)
	})
	r.Get("/product-categories/{categoryID}/lists", productHandler.HandleListSuggestions)

	r.Get("/list-categories", categoryHandler.HandleGetListCategories)
	r.Get("/product-categories", categoryHandler.HandleGetProductCategories)
	r.Post("/category-mappings", categoryHandler.HandleCreateMapping)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info().Str("addr", addr).Msg("server listening")
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// requestLogger logs one line per request after it completes.
func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Msg("request")
		})
	}
}
