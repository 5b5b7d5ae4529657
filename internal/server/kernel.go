package server

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/sweetshop/app/routes"
	"github.com/shashiranjanraj/sweetshop/config"
	"github.com/shashiranjanraj/sweetshop/pkg/cache"
	"github.com/shashiranjanraj/sweetshop/pkg/metrics"
	"github.com/shashiranjanraj/sweetshop/pkg/middleware"
	"github.com/shashiranjanraj/sweetshop/pkg/orm"
	"github.com/shashiranjanraj/sweetshop/pkg/reqid"
	"github.com/shashiranjanraj/sweetshop/pkg/response"
	"github.com/shashiranjanraj/sweetshop/pkg/router"
)

// buildHandler assembles the HTTP handler: global middleware, the
// operational endpoints and the API routes.
func buildHandler() http.Handler {
	// Bridge the cache into the ORM here so neither package imports the other.
	orm.CacheStore = &ormCache{}

	r := router.New()

	// Global middleware stack (outermost to innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery           — catches panics before they kill the goroutine
	//  3. Request ID         — inject unique ID before anything logs
	//  4. Logger             — logs request_id from context
	//  5. CORS               — allowlist from CORS_ALLOWED_ORIGINS
	//  6. Rate limiter       — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(config.AllowedOrigins())))
	r.Use(middleware.RateLimit(200, time.Minute))

	// Operational endpoints: no auth, no versioned prefix.
	r.HandleFunc("/metrics", metrics.Handler())
	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})

	routes.RegisterAPI(r)

	return r.Handler()
}

// ormCache bridges pkg/cache to the orm.Cacher interface.
type ormCache struct{}

func (c *ormCache) Get(key string, dest interface{}) bool {
	return cache.Get(key, dest)
}

func (c *ormCache) Set(key string, value interface{}, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

func (c *ormCache) Forget(key string) error {
	return cache.Forget(key)
}
