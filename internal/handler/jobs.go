package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/worker"

	"github.com/gin-gonic/gin"
)

// DeadLetterStore is the part of *worker.DeadLetters the admin endpoints use.
type DeadLetterStore interface {
	List(ctx context.Context, queue string, limit int64) ([]worker.FailedJob, error)
	Requeue(ctx context.Context, queue string) (int, error)
}

type JobsHandler struct {
	dead DeadLetterStore
}

func NewJobsHandler(dead DeadLetterStore) *JobsHandler { return &JobsHandler{dead: dead} }

// ListarFallidos godoc
// @Summary      Alertas fallidas
// @Description  Trabajos de alerta de stock que agotaron sus reintentos (más recientes primero).
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Máximo de entradas (50 por defecto)"
// @Success      200  {array} worker.FailedJob
// @Router       /api/admin/jobs/fallidos [get]
func (h *JobsHandler) ListarFallidos(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	jobs, err := h.dead.List(c.Request.Context(), worker.QueueAlertas, limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// Reencolar godoc
// @Summary      Reencolar alertas fallidas
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} map[string]int
// @Router       /api/admin/jobs/fallidos/reencolar [post]
func (h *JobsHandler) Reencolar(c *gin.Context) {
	n, err := h.dead.Requeue(c.Request.Context(), worker.QueueAlertas)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reencolados": n})
}
