package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type HistorialHandler struct{ svc service.HistorialService }

func NewHistorialHandler(svc service.HistorialService) *HistorialHandler {
	return &HistorialHandler{svc: svc}
}

// Listar godoc
// @Summary      Historial de movimientos
// @Description  Ventas, servicios y egresos en una sola lista, del más reciente al más antiguo. Los egresos llevan monto negativo.
// @Tags         historial
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.HistorialEntry
// @Failure      500  {object} apierror.APIError
// @Router       /api/historial [get]
func (h *HistorialHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		responderError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Exportar godoc
// @Summary      Exportar historial a Excel
// @Tags         historial
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Success      200  {file}   binary
// @Router       /api/historial/export [get]
func (h *HistorialHandler) Exportar(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.svc.Exportar(c.Request.Context(), &buf); err != nil {
		responderError(c, err)
		return
	}
	name := "historial-" + time.Now().Format("20060102") + ".xlsx"
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
