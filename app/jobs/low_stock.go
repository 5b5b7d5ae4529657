// Package jobs holds the shop's background queue jobs.
package jobs

import (
	"github.com/shashiranjanraj/sweetshop/pkg/logger"
	"github.com/shashiranjanraj/sweetshop/pkg/metrics"
	"github.com/shashiranjanraj/sweetshop/pkg/queue"
)

// LowStockJob is dispatched when a purchase drops a sweet's quantity to or
// below the configured threshold. It records the alert off the request path.
type LowStockJob struct {
	SweetID   uint   `json:"sweet_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
}

// Handle logs the alert and bumps the alert counter. A notification channel
// (mail, Slack) would hang off this handler.
func (j *LowStockJob) Handle() error {
	metrics.LowStockAlerts.Inc()
	logger.Warn("inventory: low stock",
		"sweet_id", j.SweetID,
		"name", j.Name,
		"quantity", j.Quantity,
		"threshold", j.Threshold,
	)
	return nil
}

// RegisterJobs registers every job type with the queue so workers can
// deserialize payloads. Call once at boot.
func RegisterJobs() {
	queue.Register("*jobs.LowStockJob", func() queue.Job { return &LowStockJob{} })
}
