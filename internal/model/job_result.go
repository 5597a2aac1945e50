package model

import "time"

const (
	JobStatusSuccess = "success"
	JobStatusFailed  = "failed"
	JobStatusTimeout = "timeout"
)

// HostOutcome 单台主机的执行结果
type HostOutcome struct {
	Success    bool   `json:"success" bson:"success"`
	ExitStatus int    `json:"exit_status" bson:"exit_status"`
	Output     string `json:"output,omitempty" bson:"output,omitempty"`
	Error      string `json:"error,omitempty" bson:"error,omitempty"`
}

// JobResult 任务执行记录
type JobResult struct {
	Id         int64                  `json:"id" gorm:"column:id;primaryKey;autoIncrement" bson:"-"`
	JobID      string                 `json:"job_id" gorm:"column:job_id;size:64;not null;uniqueIndex" bson:"_id"`
	Name       string                 `json:"name" gorm:"column:name;size:64;not null;index" bson:"name"`
	Queue      string                 `json:"queue" gorm:"column:queue;size:64" bson:"queue"`
	Status     string                 `json:"status" gorm:"column:status;size:16;index" bson:"status"`
	Args       string                 `json:"args" gorm:"column:args;type:text" bson:"args"`
	Error      string                 `json:"error" gorm:"column:error;type:text" bson:"error,omitempty"`
	Hosts      map[string]HostOutcome `json:"hosts" gorm:"column:hosts;type:text;serializer:json" bson:"hosts,omitempty"`
	Actor      string                 `json:"actor" gorm:"column:actor;size:100" bson:"actor"`
	StartedAt  time.Time              `json:"started_at" gorm:"column:started_at" bson:"started_at"`
	FinishedAt time.Time              `json:"finished_at" gorm:"column:finished_at" bson:"finished_at"`
}

func (JobResult) TableName() string {
	return "job_result"
}
