package handler

import (
	"net/http"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// VentasStats godoc
// @Summary      Ingresos, egresos y balance del día, mes y año
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.VentasStatsResponse
// @Router       /api/dashboard/ventas-stats [get]
func (h *DashboardHandler) VentasStats(c *gin.Context) {
	resp, err := h.svc.VentasStats(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProductosMasVendidos godoc
// @Summary      Los 4 productos con más unidades vendidas
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.ProductoMasVendido
// @Router       /api/dashboard/productos-mas-vendidos [get]
func (h *DashboardHandler) ProductosMasVendidos(c *gin.Context) {
	resp, err := h.svc.ProductosMasVendidos(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
