package models

import "time"

type FetchRun struct {
	ID           uint64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	RunID        string     `json:"run_id" gorm:"column:run_id;type:char(36);not null;uniqueIndex"`
	Source       string     `json:"source" gorm:"column:source;type:varchar(32);not null"`
	QueryString  string     `json:"query_string" gorm:"column:query_string;type:text;not null"`
	TotalResults *int       `json:"total_results,omitempty" gorm:"column:total_results"`
	ItemsFetched int        `json:"items_fetched" gorm:"column:items_fetched"`
	Status       string     `json:"status" gorm:"column:status;type:varchar(32);not null"`
	ErrorMessage *string    `json:"error_message,omitempty" gorm:"column:error_message;type:text"`
	StartedAt    time.Time  `json:"started_at" gorm:"column:started_at;autoCreateTime"`
	FinishedAt   *time.Time `json:"finished_at,omitempty" gorm:"column:finished_at"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (FetchRun) TableName() string { return "source_fetch_runs" }
