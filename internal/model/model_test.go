package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// Table names must match migrations/000001_init.up.sql.
func TestTableNames(t *testing.T) {
	cases := []struct {
		model any
		table string
	}{
		{&Usuario{}, "usuarios"},
		{&Categoria{}, "categorias"},
		{&Producto{}, "productos"},
		{&Venta{}, "ventas"},
		{&VentaItem{}, "venta_items"},
		{&TipoServicio{}, "tipos_servicio"},
		{&Servicio{}, "servicios"},
		{&CategoriaEgreso{}, "categorias_egreso"},
		{&Egreso{}, "egresos"},
		{&MovimientoStock{}, "movimientos_stock"},
	}

	cache := &sync.Map{}
	for _, tc := range cases {
		s, err := schema.Parse(tc.model, cache, schema.NamingStrategy{})
		require.NoError(t, err)
		assert.Equal(t, tc.table, s.Table, "%T", tc.model)
	}
}
