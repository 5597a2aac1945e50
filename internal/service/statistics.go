package service

import (
	"context"
	"fmt"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/repository"
)

type StatisticsService interface {
	SaveStatistics(ctx context.Context, req *v1.StatisticsRequest) (*model.Statistics, error)
	DeleteStatistics(ctx context.Context, id int64) error
	GetStatistics(ctx context.Context, id int64) (*model.Statistics, error)
	ListStatistics(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error)
}

func NewStatisticsService(
	service *Service,
	statisticsRepo repository.StatisticsRepository,
	instanceRepo repository.InstanceRepository,
) StatisticsService {
	return &statisticsService{
		Service:        service,
		statisticsRepo: statisticsRepo,
		instanceRepo:   instanceRepo,
	}
}

type statisticsService struct {
	*Service
	statisticsRepo repository.StatisticsRepository
	instanceRepo   repository.InstanceRepository
}

// SaveStatistics 每个实例一条记录，已存在时覆盖
func (s *statisticsService) SaveStatistics(ctx context.Context, req *v1.StatisticsRequest) (*model.Statistics, error) {
	inst, err := s.instanceRepo.GetByID(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, fmt.Errorf("%w: instance %d does not exist", orchestrator.ErrValidation, req.InstanceID)
	}
	stats, err := s.statisticsRepo.GetByInstance(ctx, req.InstanceID)
	if err != nil {
		return nil, err
	}
	actor := actorOf(ctx)
	if stats == nil {
		stats = &model.Statistics{InstanceID: req.InstanceID, Creator: actor}
	}
	stats.Name = req.Name
	stats.Status = req.Status
	stats.NodesTotal = req.NodesTotal
	stats.DaysSinceLastEdit = req.DaysSinceLastEdit
	stats.BeansTotal = req.BeansTotal
	stats.UsersCount = req.UsersCount
	stats.Data = req.Data
	stats.Modifier = actor

	err = s.tm.Transaction(ctx, func(ctx context.Context) error {
		if stats.Id == 0 {
			if err := s.statisticsRepo.Create(ctx, stats); err != nil {
				return err
			}
			return s.instanceRepo.Updates(ctx, inst.Id, map[string]interface{}{"statistics_id": stats.Id})
		}
		return s.statisticsRepo.Update(ctx, stats)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *statisticsService) DeleteStatistics(ctx context.Context, id int64) error {
	if _, err := s.GetStatistics(ctx, id); err != nil {
		return err
	}
	return s.statisticsRepo.Delete(ctx, id)
}

func (s *statisticsService) GetStatistics(ctx context.Context, id int64) (*model.Statistics, error) {
	stats, err := s.statisticsRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		return nil, notFound("statistics", id)
	}
	return stats, nil
}

func (s *statisticsService) ListStatistics(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, err
	}
	items, total, err := s.statisticsRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return listData(items, total), nil
}
