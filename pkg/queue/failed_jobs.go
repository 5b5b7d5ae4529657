package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// FailedJobRecord is the dead-letter row written when a job exhausts its
// retries. Operators inspect the table and replay by re-dispatching.
type FailedJobRecord struct {
	ID       uint      `gorm:"primaryKey;autoIncrement"`
	JobType  string    `gorm:"size:255;not null;index"`
	Payload  string    `gorm:"type:text;not null"`
	Error    string    `gorm:"type:text"`
	Attempts int       `gorm:"not null;default:0"`
	FailedAt time.Time `gorm:"autoCreateTime"`
}

func (FailedJobRecord) TableName() string { return "failed_jobs" }

// deadLetterDB persists dead jobs when set; nil keeps them in memory only.
var deadLetterDB *gorm.DB

// UseDB enables database persistence for dead jobs. Call once at boot after
// database.Connect.
func UseDB(db *gorm.DB) {
	deadLetterDB = db
	_ = db.AutoMigrate(&FailedJobRecord{})
}

// persistFailed records a dead job. The in-memory list always gets it; the
// database copy is best effort.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	if deadLetterDB == nil {
		return
	}
	if err := deadLetterDB.Create(deadLetterRow(job, typeName, lastErr, attempts)).Error; err != nil {
		// fmt rather than pkg/logger: logger would import-cycle through here.
		fmt.Printf("queue: dead-letter %s: %v\n", typeName, err)
	}
}

func deadLetterRow(job Job, typeName string, lastErr error, attempts int) *FailedJobRecord {
	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"marshal_error": %q}`, err.Error()))
	}
	row := &FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Attempts: attempts,
		FailedAt: time.Now(),
	}
	if lastErr != nil {
		row.Error = lastErr.Error()
	}
	return row
}
