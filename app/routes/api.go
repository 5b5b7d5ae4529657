// Package routes declares the HTTP surface of the shop.
//
// Three access tiers:
//   - public:    register, login
//   - user:      any valid token (catalog reads, purchase, live streams)
//   - admin:     token with the admin claim (catalog writes, restock, export)
package routes

import (
	"github.com/shashiranjanraj/sweetshop/app/controllers"
	"github.com/shashiranjanraj/sweetshop/app/graph"
	"github.com/shashiranjanraj/sweetshop/app/repositories"
	"github.com/shashiranjanraj/sweetshop/pkg/graphql"
	"github.com/shashiranjanraj/sweetshop/pkg/logger"
	"github.com/shashiranjanraj/sweetshop/pkg/middleware"
	"github.com/shashiranjanraj/sweetshop/pkg/router"
)

// RegisterAPI mounts every API route on r.
func RegisterAPI(r *router.Router) {
	authController := controllers.NewAuthController()
	sweetController := controllers.NewSweetController()
	inventoryController := controllers.NewInventoryController()
	streamController := controllers.NewStreamController()

	users := repositories.NewUserRepository()

	api := r.Group("/api")

	// Public tier.
	api.Post("/auth/register", "auth.register", authController.Register)
	api.Post("/auth/login", "auth.login", authController.Login)

	// User tier: any authenticated account.
	authed := api.Group("", middleware.Authenticate(users))
	authed.Get("/auth/me", "auth.me", authController.Me)

	authed.Get("/sweets", "sweets.list", sweetController.List)
	authed.Get("/sweets/search", "sweets.search", sweetController.Search)
	authed.Get("/sweets/stream", "sweets.stream", streamController.Stream)
	authed.Get("/ws/stock", "ws.stock", streamController.Stock)

	authed.Post("/inventory/{id}/purchase", "inventory.purchase", inventoryController.Purchase)

	// Read-only GraphQL view of the catalog.
	if schema, err := graph.NewSchema(); err != nil {
		logger.Error("routes: graphql schema", "error", err)
	} else {
		authed.Post("/graphql", "graphql", graphql.Handler(schema))
	}

	// Admin tier.
	admin := authed.Group("", middleware.RequireAdmin)
	admin.Post("/sweets", "sweets.create", sweetController.Create)
	admin.Put("/sweets/{id}", "sweets.update", sweetController.Update)
	admin.Delete("/sweets/{id}", "sweets.delete", sweetController.Delete)
	admin.Post("/sweets/bulk", "sweets.bulk", sweetController.BulkCreate)
	admin.Post("/sweets/export", "sweets.export", sweetController.Export)

	admin.Post("/inventory/{id}/restock", "inventory.restock", inventoryController.Restock)
}
