package service

import (
	"context"
	"fmt"

	v1 "atlas/api/v1"
	"atlas/internal/model"
	"atlas/internal/orchestrator"
	"atlas/internal/repository"
)

type CommandService interface {
	CreateCommand(ctx context.Context, req *v1.CreateCommandRequest) (*model.Command, error)
	UpdateCommand(ctx context.Context, id int64, req *v1.UpdateCommandRequest) (*model.Command, error)
	DeleteCommand(ctx context.Context, id int64) error
	GetCommand(ctx context.Context, id int64) (*model.Command, error)
	ListCommands(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error)
	RunCommand(ctx context.Context, id int64) (*v1.JobSubmittedData, error)
}

func NewCommandService(
	service *Service,
	commandRepo repository.CommandRepository,
	instanceRepo repository.InstanceRepository,
) CommandService {
	return &commandService{
		Service:      service,
		commandRepo:  commandRepo,
		instanceRepo: instanceRepo,
	}
}

type commandService struct {
	*Service
	commandRepo  repository.CommandRepository
	instanceRepo repository.InstanceRepository
}

// checkQuery 保存前先执行一次，字段或运算符非法时拒绝
func (s *commandService) checkQuery(ctx context.Context, filters []model.Filter) error {
	_, _, err := s.instanceRepo.List(ctx, repository.Query{Filters: filters, PageSize: 1})
	return err
}

func (s *commandService) CreateCommand(ctx context.Context, req *v1.CreateCommandRequest) (*model.Command, error) {
	if err := s.checkQuery(ctx, req.Query); err != nil {
		return nil, err
	}
	cmd := &model.Command{
		Name:         req.Name,
		Commands:     req.Commands,
		Query:        req.Query,
		SingleServer: true,
		Creator:      actorOf(ctx),
		Modifier:     actorOf(ctx),
	}
	if req.SingleServer != nil {
		cmd.SingleServer = *req.SingleServer
	}
	if err := s.commandRepo.Create(ctx, cmd); err != nil {
		return nil, err
	}
	// gorm 对带默认值的 bool 字段在创建时忽略 false
	if !cmd.SingleServer {
		if err := s.commandRepo.Update(ctx, cmd); err != nil {
			return nil, err
		}
	}
	return cmd, nil
}

func (s *commandService) UpdateCommand(ctx context.Context, id int64, req *v1.UpdateCommandRequest) (*model.Command, error) {
	cmd, err := s.GetCommand(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		cmd.Name = *req.Name
	}
	if req.Commands != nil {
		if len(*req.Commands) == 0 {
			return nil, fmt.Errorf("%w: commands must not be empty", orchestrator.ErrValidation)
		}
		cmd.Commands = *req.Commands
	}
	if req.Query != nil {
		if err := s.checkQuery(ctx, *req.Query); err != nil {
			return nil, err
		}
		cmd.Query = *req.Query
	}
	if req.SingleServer != nil {
		cmd.SingleServer = *req.SingleServer
	}
	cmd.Modifier = actorOf(ctx)
	if err := s.commandRepo.Update(ctx, cmd); err != nil {
		return nil, err
	}
	return cmd, nil
}

func (s *commandService) DeleteCommand(ctx context.Context, id int64) error {
	if _, err := s.GetCommand(ctx, id); err != nil {
		return err
	}
	return s.commandRepo.Delete(ctx, id)
}

func (s *commandService) GetCommand(ctx context.Context, id int64) (*model.Command, error) {
	cmd, err := s.commandRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cmd == nil {
		return nil, notFound("command", id)
	}
	return cmd, nil
}

func (s *commandService) ListCommands(ctx context.Context, req *v1.ListRequest) (*v1.ListResponseData, error) {
	q, err := parseQuery(req)
	if err != nil {
		return nil, err
	}
	items, total, err := s.commandRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return listData(items, total), nil
}

func (s *commandService) RunCommand(ctx context.Context, id int64) (*v1.JobSubmittedData, error) {
	cmd, err := s.GetCommand(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, orchestrator.JobCommandPrepare, orchestrator.CommandPrepareArgs{CommandID: cmd.Id})
}
