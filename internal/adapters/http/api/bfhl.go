package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/okian/bfhl/internal/domain/operation"
	"github.com/okian/bfhl/pkg/logger"
)

// BFHLHandler handles the operation dispatch endpoint.
type BFHLHandler struct {
	server *Server
	exec   Executor
}

// NewBFHLHandler creates a new dispatch handler.
func NewBFHLHandler(s *Server, exec Executor) *BFHLHandler {
	return &BFHLHandler{server: s, exec: exec}
}

// HandleBFHL handles POST /bfhl requests.
func (h *BFHLHandler) HandleBFHL(w http.ResponseWriter, r *http.Request) {
	const op = "api.bfhl"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	log := h.server.logger.With(logger.String("request_id", RequestIDFromContext(ctx)))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.server.maxBodyBytes))
	if err != nil {
		err = fmt.Errorf("%s: %w: %w", op, ErrReadBody, err)
		log.Debug(ctx, "request rejected", logger.Error(err))
		h.server.writeFailure(w, err)
		return
	}

	req, err := operation.Parse(body)
	if err != nil {
		log.Debug(ctx, "request rejected", logger.Error(err))
		h.server.writeFailure(w, err)
		return
	}

	data, err := h.exec.Execute(ctx, req)
	if err != nil {
		log.Info(ctx, "operation rejected", logger.String("operation", req.Kind.String()), logger.Error(err))
		h.server.writeFailure(w, err)
		return
	}
	h.server.writeSuccess(w, data)
}
