package domain

import "time"

type ImportStatus string

const (
	ImportStatusProcessing ImportStatus = "PROCESSING"
	ImportStatusSuccess    ImportStatus = "SUCCESS"
	ImportStatusFailed     ImportStatus = "FAILED"
)

// ImportTask 一次后台表格导入的状态记录，供轮询
type ImportTask struct {
	ID           uint64       `gorm:"primaryKey" json:"id"`
	FileName     string       `gorm:"size:255" json:"fileName"`
	Status       ImportStatus `gorm:"size:16;not null" json:"status"`
	ErrorMessage string       `gorm:"size:1000" json:"errorMessage,omitempty"`
	StartedAt    time.Time    `json:"startedAt"`
	FinishedAt   *time.Time   `json:"finishedAt,omitempty"`
}

func (ImportTask) TableName() string { return "import_tasks" }
