package handler

import (
	"errors"
	"net/http"
	"strconv"

	v1 "atlas/api/v1"
	"atlas/internal/orchestrator"
	"atlas/internal/queue"
	"atlas/internal/repository"
	"atlas/pkg/log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	logger *log.Logger
}

func NewHandler(logger *log.Logger) *Handler {
	return &Handler{
		logger: logger,
	}
}

// fail 把领域错误映射为 HTTP 状态和错误码，data.reason 保留原始原因
func (h *Handler) fail(ctx *gin.Context, op string, err error) {
	var (
		conflictErr   *orchestrator.ConflictError
		transitionErr *orchestrator.TransitionError
		dependencyErr *orchestrator.DependencyError
	)
	reason := gin.H{"reason": err.Error()}
	switch {
	case errors.As(err, &conflictErr):
		v1.HandleError(ctx, http.StatusConflict, v1.ErrConflict, reason)
	case errors.As(err, &transitionErr):
		v1.HandleError(ctx, http.StatusConflict, v1.ErrInvalidTransition, reason)
	case errors.As(err, &dependencyErr):
		v1.HandleError(ctx, http.StatusUnprocessableEntity, v1.ErrDependency, reason)
	case errors.Is(err, orchestrator.ErrNotFound):
		v1.HandleError(ctx, http.StatusNotFound, v1.ErrNotFound, reason)
	case errors.Is(err, repository.ErrInvalidQuery):
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrInvalidQuery, reason)
	case errors.Is(err, orchestrator.ErrValidation):
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, reason)
	case errors.Is(err, v1.ErrUnknownSweeper), errors.Is(err, v1.ErrUnknownPeer):
		v1.HandleError(ctx, http.StatusBadRequest, err, nil)
	case errors.Is(err, queue.ErrUnavailable):
		h.logger.WithContext(ctx).Error(op+" error", zap.Error(err))
		v1.HandleError(ctx, http.StatusServiceUnavailable, v1.ErrQueueUnavailable, nil)
	default:
		h.logger.WithContext(ctx).Error(op+" error", zap.Error(err))
		v1.HandleError(ctx, http.StatusInternalServerError, v1.ErrInternalServerError, nil)
	}
}

func pathID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return 0, false
	}
	return id, true
}

func bindList(ctx *gin.Context) (*v1.ListRequest, bool) {
	req := new(v1.ListRequest)
	if err := ctx.ShouldBindQuery(req); err != nil {
		v1.HandleError(ctx, http.StatusBadRequest, v1.ErrBadRequest, nil)
		return nil, false
	}
	return req, true
}
