package main

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"panmart/internal/cache"
	"panmart/internal/catalog"
	"panmart/internal/content"
	"panmart/internal/orders"
	"panmart/internal/ratelimiter"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

type application struct {
	config      config
	catalog     catalog.Store
	browse      *catalog.Service
	cache       *cache.Cache
	orders      orders.Store
	orderRefs   *orders.RefCoder
	content     content.Store
	logger      *zap.SugaredLogger
	cld         *cloudinary.Cloudinary
	rateLimiter ratelimiter.Limiter
}

type config struct {
	addr         string
	env          string
	frontendURL  string
	db           dbConfig
	redis        redisConfig
	auth         authConfig
	orderRefSalt string
	rateLimiter  ratelimiter.Config
}

type authConfig struct {
	basic basicConfig
}

type basicConfig struct {
	user string
	pass string
}

type dbConfig struct {
	addr        string
	maxConns    int32
	maxIdleTime string
}

type redisConfig struct {
	addr    string
	enabled bool
	ttl     time.Duration
}

func (app *application) mount() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(app.RateLimiterMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	//Set a timeout value on the request context (ctx), that will signal through ctx.Done() that the request has timed out and further processing should be stopped
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", app.healthCheckHandler)
		r.With(app.BasicAuthMiddleware()).Get("/debug/vars", expvar.Handler().ServeHTTP)

		// Storefront
		r.Route("/shop", func(r chi.Router) {
			r.Get("/search", app.searchProductsHandler)
			r.Get("/{categorySlug}", app.browseCategoryHandler)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", app.listCategoriesHandler)
			r.Get("/tree", app.categoryTreeHandler)
			r.Get("/{categoryID}", app.getCategoryHandler)
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", app.listArticlesHandler)
			r.Get("/{slug}", app.getArticleHandler)
		})
		r.Get("/videos", app.listVideosHandler)

		// Admin console
		r.Route("/admin", func(r chi.Router) {
			r.Use(app.BasicAuthMiddleware())

			r.Route("/categories", func(r chi.Router) {
				r.Post("/", app.createCategoryHandler)
				r.Patch("/{categoryID}", app.updateCategoryHandler)
				r.Delete("/{categoryID}", app.deleteCategoryHandler)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", app.listProductsHandler)
				r.Post("/", app.createProductHandler)
				r.Get("/{productID}", app.getProductHandler)
				r.Patch("/{productID}", app.updateProductHandler)
				r.Delete("/{productID}", app.deleteProductHandler)
				r.Post("/{productID}/image", app.uploadProductImageHandler)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", app.listOrdersHandler)
				r.Get("/{orderRef}", app.getOrderHandler)
				r.Patch("/{orderRef}/status", app.updateOrderStatusHandler)
			})

			r.Route("/articles", func(r chi.Router) {
				r.Post("/", app.createArticleHandler)
				r.Patch("/{articleID}", app.updateArticleHandler)
				r.Delete("/{articleID}", app.deleteArticleHandler)
			})

			r.Route("/videos", func(r chi.Router) {
				r.Post("/", app.createVideoHandler)
				r.Delete("/{videoID}", app.deleteVideoHandler)
			})
		})
	})
	return r
}

func (app *application) run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         app.config.addr,
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	// Implementing graceful shutdown
	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", app.config.addr, "env", app.config.env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", app.config.addr, "env", app.config.env)

	return nil
}
