//go:build integration

package router_test

// Runs the real router against PostgreSQL and Redis started with testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/config"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/dto"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/infra"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/router"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func (e *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body struct {
		Token string `json:"token"`
	}
	decodeJSON(t, resp, &body)
	require.NotEmpty(t, body.Token)
	return body.Token
}

func (e *testEnv) crearProducto(t *testing.T, categoriaID, nombre string, stock int, precio float64) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/productos", map[string]any{
		"nombre":      nombre,
		"precio":      precio,
		"stock":       stock,
		"stockMinimo": 0,
		"categoriaId": categoriaID,
	}, e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var p struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &p)
	return p.ID
}

func (e *testEnv) stock(t *testing.T, productoID string) int {
	t.Helper()
	resp := e.do(t, http.MethodGet, "/api/productos/"+productoID, nil, e.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var p struct {
		Stock int `json:"stock"`
	}
	decodeJSON(t, resp, &p)
	return p.Stock
}

func venta(lineas ...any) map[string]any {
	var productos []map[string]any
	for i := 0; i < len(lineas); i += 2 {
		productos = append(productos, map[string]any{"productoId": lineas[i], "cantidad": lineas[i+1]})
	}
	return map[string]any{"productos": productos}
}

// ── Setup ────────────────────────────────────────────────────────────────────

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("variedades_test"),
		tcPostgres.WithUsername("mafer"),
		tcPostgres.WithPassword("mafer"),
		tcPostgres.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(pgC) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(rdC) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		MigrationsPath:     "../../migrations",
		CacheTTLSeconds:    60,
		LoginRateLimit:     "1000-M",
		APIRateLimit:       "10000-M",
		BusinessName:       "Variedades Mafer",
		Timezone:           "America/Bogota",
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db, cfg.MigrationsPath))

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Exec(`INSERT INTO usuarios (email, password_hash, nombre, rol)
		VALUES ('admin@mafer.test', ?, 'Admin', 'admin')`, string(hash)).Error)

	srv := httptest.NewServer(router.New(cfg, db, rdb))
	t.Cleanup(srv.Close)

	env := &testEnv{server: srv}
	env.token = env.login(t, "admin@mafer.test", "admin123")
	return env
}

func (e *testEnv) crearCategoria(t *testing.T) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/categorias", map[string]any{"nombre": "Cuadernos"}, e.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var c struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &c)
	return c.ID
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestIntegration_VentasStockYRoles(t *testing.T) {
	env := setupTestEnv(t)
	cat := env.crearCategoria(t)

	p1 := env.crearProducto(t, cat, "P1", 5, 10)
	p2 := env.crearProducto(t, cat, "P2", 0, 20)

	// 1. Sale that fits
	resp := env.do(t, http.MethodPost, "/api/ventas", venta(p1, 2), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var v struct {
		ID    string  `json:"id"`
		Total float64 `json:"total"`
	}
	decodeJSON(t, resp, &v)
	assert.Equal(t, 20.0, v.Total)
	assert.Equal(t, 3, env.stock(t, p1))

	// 2. Batch with one short product persists nothing
	resp = env.do(t, http.MethodPost, "/api/ventas", venta(p1, 1, p2, 1), env.token)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var apiErr struct {
		Error string `json:"error"`
	}
	decodeJSON(t, resp, &apiErr)
	assert.Contains(t, apiErr.Error, "P2")
	assert.Equal(t, 3, env.stock(t, p1))

	// 3. Employees cannot delete sales nor reach admin routes
	resp = env.do(t, http.MethodPost, "/api/admin/usuarios", map[string]any{
		"email": "empleado@mafer.test", "password": "empleado1", "name": "Empleado",
	}, env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	empleado := env.login(t, "empleado@mafer.test", "empleado1")

	resp = env.do(t, http.MethodDelete, "/api/ventas/"+v.ID, nil, empleado)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 3, env.stock(t, p1))

	resp = env.do(t, http.MethodGet, "/api/admin/usuarios", nil, empleado)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()

	// 4. Admin delete restores stock; a second delete is 404
	resp = env.do(t, http.MethodDelete, "/api/ventas/"+v.ID, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 5, env.stock(t, p1))

	resp = env.do(t, http.MethodDelete, "/api/ventas/"+v.ID, nil, env.token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestIntegration_VentasConcurrentesNoSobreVenden(t *testing.T) {
	env := setupTestEnv(t)
	cat := env.crearCategoria(t)
	p := env.crearProducto(t, cat, "Último cuaderno", 1, 5000)

	const n = 5
	var wg sync.WaitGroup
	codes := make([]int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := env.do(t, http.MethodPost, "/api/ventas", venta(p, 1), env.token)
			codes[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, c := range codes {
		if c == http.StatusCreated {
			ok++
		} else {
			assert.Equal(t, http.StatusBadRequest, c)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 0, env.stock(t, p))
}

func TestIntegration_DashboardSeInvalidaTrasVenta(t *testing.T) {
	env := setupTestEnv(t)
	cat := env.crearCategoria(t)
	p := env.crearProducto(t, cat, "Lápiz", 10, 100)

	type stats struct {
		Diario struct {
			Ingresos       float64 `json:"ingresos"`
			CantidadVentas int     `json:"cantidadVentas"`
		} `json:"diario"`
	}
	leer := func() stats {
		resp := env.do(t, http.MethodGet, "/api/dashboard/ventas-stats", nil, env.token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var s stats
		decodeJSON(t, resp, &s)
		return s
	}

	assert.Zero(t, leer().Diario.Ingresos) // now cached

	resp := env.do(t, http.MethodPost, "/api/ventas", venta(p, 1), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	s := leer()
	assert.Equal(t, 100.0, s.Diario.Ingresos)
	assert.Equal(t, 1, s.Diario.CantidadVentas)

	resp = env.do(t, http.MethodGet, "/api/historial/export", nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	resp.Body.Close()
}

func TestIntegration_RenombrarCategoriaRefrescaTopProductos(t *testing.T) {
	env := setupTestEnv(t)
	cat := env.crearCategoria(t)
	p := env.crearProducto(t, cat, "Borrador", 10, 500)

	resp := env.do(t, http.MethodPost, "/api/ventas", venta(p, 2), env.token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	leer := func() []dto.ProductoMasVendido {
		resp := env.do(t, http.MethodGet, "/api/dashboard/productos-mas-vendidos", nil, env.token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var top []dto.ProductoMasVendido
		decodeJSON(t, resp, &top)
		return top
	}

	top := leer() // now cached
	require.Len(t, top, 1)
	require.NotNil(t, top[0].Categoria)
	assert.Equal(t, "Cuadernos", top[0].Categoria.Nombre)

	resp = env.do(t, http.MethodPut, "/api/categorias/"+cat, map[string]any{"nombre": "Útiles escolares"}, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	top = leer()
	require.Len(t, top, 1)
	assert.Equal(t, "Útiles escolares", top[0].Categoria.Nombre)
}
