package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/sweetshop/app/listeners"
	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/pkg/sse"
	"github.com/shashiranjanraj/sweetshop/pkg/ws"
)

// StreamController serves the live stock surfaces: an SSE snapshot stream
// and the WebSocket stock hub.
type StreamController struct {
	catalog  *services.CatalogService
	interval time.Duration
}

func NewStreamController() *StreamController {
	return &StreamController{
		catalog:  services.NewCatalogService(),
		interval: 5 * time.Second,
	}
}

// Stream pushes a full catalog snapshot to the client every few seconds
// until the client disconnects.
// GET /api/sweets/stream
func (c *StreamController) Stream(w http.ResponseWriter, r *http.Request) {
	stream := sse.New(w, r)
	if stream == nil {
		return
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	// Send an initial snapshot immediately so clients don't wait a full tick.
	c.sendSnapshot(stream)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			if stream.IsClosed() {
				return
			}
			c.sendSnapshot(stream)
		}
	}
}

func (c *StreamController) sendSnapshot(stream *sse.Stream) {
	sweets, err := c.catalog.List()
	if err != nil {
		stream.Comment("snapshot unavailable")
		return
	}
	stream.Send("stock", sweets) //nolint:errcheck
}

// Stock upgrades the connection and joins the stock broadcast hub.
// GET /api/ws/stock
func (c *StreamController) Stock(w http.ResponseWriter, r *http.Request) {
	ws.Upgrade(w, r, listeners.StockHub)
}
