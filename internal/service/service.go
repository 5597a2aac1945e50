package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/pkg/log"
)

type Service struct {
	logger *log.Logger
	tm     repository.Transaction
	orch   *orchestrator.Orchestrator
	queue  queue.Client
}

func NewService(
	tm repository.Transaction,
	logger *log.Logger,
	orch *orchestrator.Orchestrator,
	q queue.Client,
) *Service {
	return &Service{
		logger: logger,
		tm:     tm,
		orch:   orch,
		queue:  q,
	}
}

// parseQuery where 参数为 JSON 编码的条件列表
func parseQuery(req *v1.ListRequest) (repository.Query, error) {
	q := repository.Query{Sort: req.Sort, Page: req.Page, PageSize: req.PageSize}
	if where := strings.TrimSpace(req.Where); where != "" {
		if err := json.Unmarshal([]byte(where), &q.Filters); err != nil {
			return q, fmt.Errorf("%w: where: %v", repository.ErrInvalidQuery, err)
		}
	}
	return q, nil
}

func listData[T any](items []*T, total int64) *v1.ListResponseData {
	if items == nil {
		items = []*T{}
	}
	return &v1.ListResponseData{Total: total, List: items}
}

func (s *Service) submit(ctx context.Context, name string, args interface{}, opts ...queue.Option) (*v1.JobSubmittedData, error) {
	id, err := s.queue.Submit(ctx, name, args, opts...)
	if err != nil {
		return nil, fmt.Errorf("submit %s: %w", name, err)
	}
	return &v1.JobSubmittedData{JobID: id}, nil
}

func actorOf(ctx context.Context) string {
	return queue.ActorFromContext(ctx)
}

func notFound(entity string, id interface{}) error {
	return fmt.Errorf("%s %v: %w", entity, id, orchestrator.ErrNotFound)
}

func validSiteType(t string) bool {
	for _, s := range model.SiteTypes {
		if s == t {
			return true
		}
	}
	return false
}
