// Package listeners wires inventory events to their side effects: live
// stock broadcasts over WebSocket and low-stock queue jobs.
package listeners

import (
	"encoding/json"

	"github.com/shashiranjanraj/sweetshop/app/jobs"
	"github.com/shashiranjanraj/sweetshop/app/services"
	"github.com/shashiranjanraj/sweetshop/config"
	"github.com/shashiranjanraj/sweetshop/pkg/event"
	"github.com/shashiranjanraj/sweetshop/pkg/logger"
	"github.com/shashiranjanraj/sweetshop/pkg/queue"
	"github.com/shashiranjanraj/sweetshop/pkg/ws"
)

// StockHub broadcasts stock changes to connected WebSocket clients.
// Started by the server bootstrap.
var StockHub = ws.NewHub()

// stockMessage is the wire format pushed to WebSocket clients.
type stockMessage struct {
	Event string               `json:"event"`
	Sweet services.StockChange `json:"sweet"`
}

// Register hooks up all event listeners. Call once at boot, after the queue
// jobs are registered.
func Register() {
	broadcast := func(name string) event.Handler {
		return func(payload interface{}) {
			change, ok := payload.(services.StockChange)
			if !ok {
				return
			}
			msg, err := json.Marshal(stockMessage{Event: name, Sweet: change})
			if err != nil {
				return
			}
			select {
			case StockHub.Broadcast <- msg:
			default:
				// Hub buffer full; a stale stock frame is acceptable.
			}
		}
	}

	event.Listen(services.EventPurchased, broadcast(services.EventPurchased))
	event.Listen(services.EventRestocked, broadcast(services.EventRestocked))

	event.Listen("sweet.low_stock", func(payload interface{}) {
		change, ok := payload.(services.StockChange)
		if !ok {
			return
		}
		job := &jobs.LowStockJob{
			SweetID:   change.SweetID,
			Name:      change.Name,
			Quantity:  change.Quantity,
			Threshold: config.LowStockThreshold(),
		}
		if err := queue.Dispatch(job); err != nil {
			logger.Error("listeners: dispatch low stock job", "error", err)
		}
	})
}
