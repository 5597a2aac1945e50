package v1

var (
	// common errors
	ErrSuccess             = newError(0, "ok")
	ErrBadRequest          = newError(400, "bad request")
	ErrUnauthorized        = newError(401, "unauthorized")
	ErrNotFound            = newError(404, "not found")
	ErrInternalServerError = newError(500, "internal server error")

	// orchestration errors
	ErrConflict          = newError(409, "conflict")
	ErrInvalidTransition = newError(4091, "invalid status transition")
	ErrDependency        = newError(422, "dependency resolution failed")
	ErrInvalidQuery      = newError(4001, "invalid query")
	ErrUnknownSweeper    = newError(4002, "unknown sweeper")
	ErrUnknownPeer       = newError(4003, "unknown peer environment")
	ErrQueueUnavailable  = newError(503, "task queue unavailable")
)
