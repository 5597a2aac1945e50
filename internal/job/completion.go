package job

import (
	"context"
	"errors"

	"atlas/internal/fleet"
	"atlas/internal/model"
	"atlas/internal/notify"
	"atlas/internal/queue"

	"go.uber.org/zap"
)

// Complete 保存任务结果并产出通知，成功失败都会执行
func (j *Jobs) Complete(ctx context.Context, c *queue.Completion) {
	report := c.Report
	if report == nil {
		report = &queue.Report{}
	}
	hosts := report.Hosts
	var remoteErr *fleet.RemoteError
	if errors.As(c.Err, &remoteErr) {
		hosts = remoteErr.Hosts
	}

	result := &model.JobResult{
		JobID:      c.Job.ID,
		Name:       c.Job.Name,
		Queue:      c.Job.Queue,
		Status:     c.Status,
		Args:       string(c.Job.Args),
		Hosts:      hosts,
		Actor:      c.Job.Actor,
		StartedAt:  c.StartedAt,
		FinishedAt: c.FinishedAt,
	}
	if c.Err != nil {
		result.Error = c.Err.Error()
	}
	if err := j.results.Save(ctx, result); err != nil {
		j.logger.WithContext(ctx).Error("save job result failed", zap.String("job_id", c.Job.ID), zap.Error(err))
	}

	title := report.Title
	if title == "" {
		title = c.Job.Name
	}
	if c.Err != nil {
		title = "Failed: " + title
	}
	o := &notify.Outcome{
		Title:    title,
		Success:  c.Err == nil,
		Actor:    c.Job.Actor,
		Job:      c.Job.Name,
		JobID:    c.Job.ID,
		Entity:   report.Entity,
		EntityID: report.EntityID,
		Fields:   report.Fields,
		Error:    result.Error,
		Hosts:    hosts,
		Time:     c.FinishedAt,
	}
	j.notifier.Notify(ctx, o)
}
