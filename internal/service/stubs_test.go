package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Juan-GARCESS/Variedades-mafer/internal/model"
	"github.com/Juan-GARCESS/Variedades-mafer/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────
// In-memory repositories. DB() returns nil so runTx calls fn(nil) directly.

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) add(nombre, rol string) *model.Usuario {
	u := &model.Usuario{ID: uuid.New(), Email: strings.ToLower(nombre) + "@mafer.test", Nombre: nombre, Rol: rol}
	r.usuarios[u.ID] = u
	return u
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	for _, existing := range r.usuarios {
		if strings.EqualFold(existing.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) FindByEmail(_ context.Context, email string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *stubUsuarioRepo) List(_ context.Context) ([]model.Usuario, error) {
	out := make([]model.Usuario, 0, len(r.usuarios))
	for _, u := range r.usuarios {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	for id, existing := range r.usuarios {
		if id != u.ID && strings.EqualFold(existing.Email, u.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	cp := *u
	r.usuarios[u.ID] = &cp
	return nil
}

func (r *stubUsuarioRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.usuarios[id]; !ok {
		return 0, nil
	}
	delete(r.usuarios, id)
	return 1, nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)

// stubCategoriaRepo — productos holds the per-category product count.
type stubCategoriaRepo struct {
	categorias map[uuid.UUID]*model.Categoria
	productos  map[uuid.UUID]int64
}

func newStubCategoriaRepo() *stubCategoriaRepo {
	return &stubCategoriaRepo{
		categorias: make(map[uuid.UUID]*model.Categoria),
		productos:  make(map[uuid.UUID]int64),
	}
}

func (r *stubCategoriaRepo) add(nombre string) *model.Categoria {
	c := &model.Categoria{ID: uuid.New(), Nombre: nombre, CreatedAt: time.Now()}
	r.categorias[c.ID] = c
	return c
}

func (r *stubCategoriaRepo) Create(_ context.Context, c *model.Categoria) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Categoria, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaRepo) ListConConteo(_ context.Context) ([]repository.CategoriaConConteo, error) {
	out := make([]repository.CategoriaConConteo, 0, len(r.categorias))
	for id, c := range r.categorias {
		out = append(out, repository.CategoriaConConteo{Categoria: *c, CantidadProductos: r.productos[id]})
	}
	return out, nil
}

func (r *stubCategoriaRepo) Update(_ context.Context, c *model.Categoria) error {
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.categorias[id]; !ok {
		return 0, nil
	}
	delete(r.categorias, id)
	return 1, nil
}

func (r *stubCategoriaRepo) CountProductos(_ context.Context, id uuid.UUID) (int64, error) {
	return r.productos[id], nil
}

var _ repository.CategoriaRepository = (*stubCategoriaRepo)(nil)

// stubProductoRepo — vendidos holds how many sale lines reference a product.
type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
	vendidos  map[uuid.UUID]int64
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{
		productos: make(map[uuid.UUID]*model.Producto),
		vendidos:  make(map[uuid.UUID]int64),
	}
}

func (r *stubProductoRepo) add(p *model.Producto) *model.Producto {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return p
}

func (r *stubProductoRepo) stock(id uuid.UUID) int { return r.productos[id].Stock }

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *stubProductoRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Producto, error) {
	var out []model.Producto
	for _, id := range ids {
		if p, ok := r.productos[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) List(_ context.Context) ([]model.Producto, error) {
	out := make([]model.Producto, 0, len(r.productos))
	for _, p := range r.productos {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubProductoRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.productos[id]; !ok {
		return 0, nil
	}
	delete(r.productos, id)
	return 1, nil
}

func (r *stubProductoRepo) CountVentaItems(_ context.Context, id uuid.UUID) (int64, error) {
	return r.vendidos[id], nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubProductoRepo) UpdateTx(_ *gorm.DB, p *model.Producto) error {
	cp := *p
	r.productos[p.ID] = &cp
	return nil
}

func (r *stubProductoRepo) DecrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int, bool, error) {
	p, ok := r.productos[id]
	if !ok || p.Stock < qty {
		return 0, false, nil
	}
	p.Stock -= qty
	return p.Stock, true, nil
}

func (r *stubProductoRepo) IncrementStockTx(_ *gorm.DB, id uuid.UUID, qty int) (int, error) {
	p, ok := r.productos[id]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	p.Stock += qty
	return p.Stock, nil
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// stubVentaRepo keeps sales in insertion order. It resolves Items[].Producto
// and Usuario from the sibling stubs the way Preload would.
type stubVentaRepo struct {
	ventas    []*model.Venta
	productos *stubProductoRepo
	usuarios  *stubUsuarioRepo
	listErr   error
}

func newStubVentaRepo(productos *stubProductoRepo, usuarios *stubUsuarioRepo) *stubVentaRepo {
	return &stubVentaRepo{productos: productos, usuarios: usuarios}
}

func (r *stubVentaRepo) CreateTx(_ *gorm.DB, v *model.Venta) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	for i := range v.Items {
		v.Items[i].ID = uuid.New()
		v.Items[i].VentaID = v.ID
	}
	cp := *v
	cp.Items = append([]model.VentaItem(nil), v.Items...)
	r.ventas = append(r.ventas, &cp)
	return nil
}

func (r *stubVentaRepo) hidratar(v *model.Venta) model.Venta {
	out := *v
	out.Items = make([]model.VentaItem, len(v.Items))
	for i, it := range v.Items {
		if r.productos != nil {
			if p, ok := r.productos.productos[it.ProductoID]; ok {
				cp := *p
				it.Producto = &cp
			}
		}
		out.Items[i] = it
	}
	if r.usuarios != nil && v.UsuarioID != nil {
		if u, ok := r.usuarios.usuarios[*v.UsuarioID]; ok {
			cp := *u
			out.Usuario = &cp
		}
	}
	return out
}

func (r *stubVentaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Venta, error) {
	for _, v := range r.ventas {
		if v.ID == id {
			out := r.hidratar(v)
			return &out, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubVentaRepo) List(_ context.Context, f repository.VentaFilter) ([]model.Venta, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []model.Venta
	for _, v := range r.ventas {
		if f.UsuarioID != nil && (v.UsuarioID == nil || *v.UsuarioID != *f.UsuarioID) {
			continue
		}
		if f.Desde != nil && v.Fecha.Before(*f.Desde) {
			continue
		}
		if f.Hasta != nil && !v.Fecha.Before(*f.Hasta) {
			continue
		}
		out = append(out, r.hidratar(v))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *stubVentaRepo) ListItems(_ context.Context) ([]model.VentaItem, error) {
	var out []model.VentaItem
	for _, v := range r.ventas {
		out = append(out, r.hidratar(v).Items...)
	}
	return out, nil
}

func (r *stubVentaRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	for i, v := range r.ventas {
		if v.ID == id {
			r.ventas = append(r.ventas[:i], r.ventas[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (r *stubVentaRepo) DB() *gorm.DB { return nil }

var _ repository.VentaRepository = (*stubVentaRepo)(nil)

type stubMovimientoRepo struct {
	movimientos []model.MovimientoStock
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoStock) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) ListByProducto(_ context.Context, id uuid.UUID, limit int) ([]model.MovimientoStock, error) {
	var out []model.MovimientoStock
	for i := len(r.movimientos) - 1; i >= 0; i-- {
		if r.movimientos[i].ProductoID == id {
			out = append(out, r.movimientos[i])
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ repository.MovimientoStockRepository = (*stubMovimientoRepo)(nil)

type stubTipoServicioRepo struct {
	tipos     map[uuid.UUID]*model.TipoServicio
	servicios map[uuid.UUID]int64
}

func newStubTipoServicioRepo() *stubTipoServicioRepo {
	return &stubTipoServicioRepo{
		tipos:     make(map[uuid.UUID]*model.TipoServicio),
		servicios: make(map[uuid.UUID]int64),
	}
}

func (r *stubTipoServicioRepo) add(nombre string) *model.TipoServicio {
	t := &model.TipoServicio{ID: uuid.New(), Nombre: nombre}
	r.tipos[t.ID] = t
	return t
}

func (r *stubTipoServicioRepo) Create(_ context.Context, t *model.TipoServicio) error {
	for _, existing := range r.tipos {
		if existing.Nombre == t.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	t.ID = uuid.New()
	cp := *t
	r.tipos[t.ID] = &cp
	return nil
}

func (r *stubTipoServicioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TipoServicio, error) {
	t, ok := r.tipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *stubTipoServicioRepo) List(_ context.Context) ([]model.TipoServicio, error) {
	out := make([]model.TipoServicio, 0, len(r.tipos))
	for _, t := range r.tipos {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubTipoServicioRepo) Update(_ context.Context, t *model.TipoServicio) error {
	cp := *t
	r.tipos[t.ID] = &cp
	return nil
}

func (r *stubTipoServicioRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.tipos[id]; !ok {
		return 0, nil
	}
	delete(r.tipos, id)
	return 1, nil
}

func (r *stubTipoServicioRepo) CountServicios(_ context.Context, id uuid.UUID) (int64, error) {
	return r.servicios[id], nil
}

var _ repository.TipoServicioRepository = (*stubTipoServicioRepo)(nil)

type stubServicioRepo struct {
	servicios []*model.Servicio
}

func (r *stubServicioRepo) Create(_ context.Context, s *model.Servicio) error {
	s.ID = uuid.New()
	cp := *s
	r.servicios = append(r.servicios, &cp)
	return nil
}

func (r *stubServicioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Servicio, error) {
	for _, s := range r.servicios {
		if s.ID == id {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubServicioRepo) List(_ context.Context, desde *time.Time) ([]model.Servicio, error) {
	var out []model.Servicio
	for _, s := range r.servicios {
		if desde != nil && s.Fecha.Before(*desde) {
			continue
		}
		out = append(out, *s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *stubServicioRepo) Update(_ context.Context, s *model.Servicio) error {
	for i, existing := range r.servicios {
		if existing.ID == s.ID {
			cp := *s
			r.servicios[i] = &cp
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubServicioRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	for i, s := range r.servicios {
		if s.ID == id {
			r.servicios = append(r.servicios[:i], r.servicios[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

var _ repository.ServicioRepository = (*stubServicioRepo)(nil)

type stubCategoriaEgresoRepo struct {
	categorias map[uuid.UUID]*model.CategoriaEgreso
	egresos    map[uuid.UUID]int64
}

func newStubCategoriaEgresoRepo() *stubCategoriaEgresoRepo {
	return &stubCategoriaEgresoRepo{
		categorias: make(map[uuid.UUID]*model.CategoriaEgreso),
		egresos:    make(map[uuid.UUID]int64),
	}
}

func (r *stubCategoriaEgresoRepo) add(nombre string) *model.CategoriaEgreso {
	c := &model.CategoriaEgreso{ID: uuid.New(), Nombre: nombre}
	r.categorias[c.ID] = c
	return c
}

func (r *stubCategoriaEgresoRepo) Create(_ context.Context, c *model.CategoriaEgreso) error {
	for _, existing := range r.categorias {
		if existing.Nombre == c.Nombre {
			return gorm.ErrDuplicatedKey
		}
	}
	c.ID = uuid.New()
	cp := *c
	r.categorias[c.ID] = &cp
	return nil
}

func (r *stubCategoriaEgresoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.CategoriaEgreso, error) {
	c, ok := r.categorias[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *stubCategoriaEgresoRepo) List(_ context.Context) ([]model.CategoriaEgreso, error) {
	out := make([]model.CategoriaEgreso, 0, len(r.categorias))
	for _, c := range r.categorias {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

func (r *stubCategoriaEgresoRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.categorias[id]; !ok {
		return 0, nil
	}
	delete(r.categorias, id)
	return 1, nil
}

func (r *stubCategoriaEgresoRepo) CountEgresos(_ context.Context, id uuid.UUID) (int64, error) {
	return r.egresos[id], nil
}

var _ repository.CategoriaEgresoRepository = (*stubCategoriaEgresoRepo)(nil)

type stubEgresoRepo struct {
	egresos []*model.Egreso
}

func (r *stubEgresoRepo) Create(_ context.Context, e *model.Egreso) error {
	e.ID = uuid.New()
	cp := *e
	r.egresos = append(r.egresos, &cp)
	return nil
}

func (r *stubEgresoRepo) List(_ context.Context, desde *time.Time) ([]model.Egreso, error) {
	var out []model.Egreso
	for _, e := range r.egresos {
		if desde != nil && e.Fecha.Before(*desde) {
			continue
		}
		out = append(out, *e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Fecha.After(out[j].Fecha) })
	return out, nil
}

func (r *stubEgresoRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	for i, e := range r.egresos {
		if e.ID == id {
			r.egresos = append(r.egresos[:i], r.egresos[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

var _ repository.EgresoRepository = (*stubEgresoRepo)(nil)
