package handler

import (
	"net/http"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/service"

	"github.com/gin-gonic/gin"
)

type CategoriasEgresoHandler struct{ svc service.CategoriaEgresoService }

func NewCategoriasEgresoHandler(svc service.CategoriaEgresoService) *CategoriasEgresoHandler {
	return &CategoriasEgresoHandler{svc: svc}
}

func (h *CategoriasEgresoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CategoriasEgresoHandler) Crear(c *gin.Context) {
	var req dto.CategoriaEgresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CategoriasEgresoHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Egresos Handler ──────────────────────────────────────────────────────────

type EgresosHandler struct{ svc service.EgresoService }

func NewEgresosHandler(svc service.EgresoService) *EgresosHandler {
	return &EgresosHandler{svc: svc}
}

// Listar godoc
// @Summary Listar egresos
// @Tags egresos
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.EgresoResponse
// @Router /api/egresos [get]
func (h *EgresosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary Registrar egreso
// @Tags egresos
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.EgresoRequest true "Egreso"
// @Success 201 {object} dto.EgresoResponse
// @Failure 400 {object} apierror.APIError
// @Router /api/egresos [post]
func (h *EgresosHandler) Crear(c *gin.Context) {
	var req dto.EgresoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *EgresosHandler) Eliminar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
