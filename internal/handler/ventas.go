package handler

import (
	"bytes"
	"net/http"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/service"

	"github.com/gin-gonic/gin"
)

type VentasHandler struct{ svc service.VentaService }

func NewVentasHandler(svc service.VentaService) *VentasHandler { return &VentasHandler{svc: svc} }

// RegistrarVenta godoc
// @Summary      Registrar una nueva venta
// @Description  Crea la venta y descuenta el stock en una sola transacción. Si algún producto no alcanza, no se guarda nada.
// @Tags         ventas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearVentaRequest true "Detalle de la venta"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/ventas [post]
func (h *VentasHandler) RegistrarVenta(c *gin.Context) {
	var req dto.CrearVentaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sol, ok := solicitante(c)
	if !ok {
		return
	}

	resp, err := h.svc.Crear(c.Request.Context(), sol.ID, req)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EliminarVenta godoc
// @Summary      Eliminar venta
// @Description  Solo administradores. Devuelve al stock las cantidades vendidas.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      200  {object} dto.MessageResponse
// @Failure      403  {object} apierror.APIError
// @Failure      404  {object} apierror.APIError
// @Router       /api/ventas/{id} [delete]
func (h *VentasHandler) EliminarVenta(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	sol, ok := solicitante(c)
	if !ok {
		return
	}
	resp, err := h.svc.Eliminar(c.Request.Context(), id, sol.ID)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListarVentas godoc
// @Summary      Listar ventas
// @Description  Los empleados solo ven sus propias ventas.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        fecha query string false "Día (YYYY-MM-DD)"
// @Success      200  {array} dto.VentaResponse
// @Router       /api/ventas [get]
func (h *VentasHandler) ListarVentas(c *gin.Context) {
	var filter dto.VentaFilter
	if !bindQuery(c, &filter) {
		return
	}
	sol, ok := solicitante(c)
	if !ok {
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), sol, filter)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerVenta godoc
// @Summary      Detalle de venta
// @Description  Los empleados solo ven sus propias ventas; una venta ajena responde 404.
// @Tags         ventas
// @Produce      json
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      200  {object} dto.VentaResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/ventas/{id} [get]
func (h *VentasHandler) ObtenerVenta(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	sol, ok := solicitante(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id, sol)
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ticket godoc
// @Summary      Ticket PDF de la venta
// @Tags         ventas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path     string true "UUID de la venta"
// @Success      200  {file}   binary
// @Router       /api/ventas/{id}/ticket [get]
func (h *VentasHandler) Ticket(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	sol, ok := solicitante(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.Ticket(c.Request.Context(), id, sol, &buf); err != nil {
		responderError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="ticket-`+id.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
