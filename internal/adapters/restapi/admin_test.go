package restapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafetec/cafetec-client/internal/domain/auth"
	"github.com/cafetec/cafetec-client/internal/ports"
)

func TestAllProducts_IncludesInactive(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/productos/admin", r.URL.Path)
		require.Equal(t, "tok-adm", r.Header.Get("x-auth-token"))
		_, _ = w.Write([]byte(`[{"id_producto":1,"nombre":"Café","disponible":false}]`))
	}))

	products, err := client.AllProducts(context.Background(), "tok-adm")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.False(t, products[0].IsAvailable())
}

func TestCreateProduct(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/productos", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Torta", req["nombre"])
		assert.EqualValues(t, 2, req["id_categoria"])

		_, _ = w.Write([]byte(`{"data":{"id_producto":9,"nombre":"Torta","precio":45}}`))
	}))

	p, err := client.CreateProduct(context.Background(), "tok-adm", ports.ProductInput{
		Name:       "Torta",
		Price:      decimal.NewFromInt(45),
		CategoryID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.ID)
}

func TestUpdateProduct(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/productos/9", r.URL.Path)
		_, _ = w.Write([]byte(`{"id_producto":9,"nombre":"Torta grande"}`))
	}))

	p, err := client.UpdateProduct(context.Background(), "tok-adm", 9, ports.ProductInput{Name: "Torta grande"})
	require.NoError(t, err)
	assert.Equal(t, "Torta grande", p.Name)
}

func TestSetProductActive(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/productos/9/activo", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, false, req["activo"])

		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	assert.NoError(t, client.SetProductActive(context.Background(), "tok-adm", 9, false))
}

func TestAllOrders(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/pedidos", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"id_pedido":1},{"id_pedido":2}]}`))
	}))

	orders, err := client.AllOrders(context.Background(), "tok-adm")
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestUpdateOrderStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/pedidos/91/estado", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.EqualValues(t, 3, req["id_estado"])

		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	assert.NoError(t, client.UpdateOrderStatus(context.Background(), "tok-adm", 91, 3))
}

func TestStats(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/dashboard/stats", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"totalPedidos":120,
			"pedidosHoy":8,
			"ventasHoy":640.50,
			"productosActivos":14,
			"pedidosPendientes":3,
			"ventasUltimaSemana":[{"fecha":"2026-08-30","total_ventas":820}],
			"productosMasVendidos":[{"id_producto":1,"nombre_producto":"Café","total_vendido":40,"ingresos_totales":1000,"precio":25}]
		}`))
	}))

	stats, err := client.Stats(context.Background(), "tok-adm")
	require.NoError(t, err)
	assert.Equal(t, 120, stats.TotalOrders)
	assert.Equal(t, 3, stats.PendingOrders)
	require.Len(t, stats.LastWeekSales, 1)
	assert.Equal(t, "2026-08-30", stats.LastWeekSales[0].Date)
	require.Len(t, stats.TopProducts, 1)
	assert.Equal(t, 40, stats.TopProducts[0].Sold)
}

func TestUsers_RolesFromRecord(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id_usuario":7,"nombre":"Ana","email":"ana@tec.mx","activo":true,"roles":[{"nombre_rol":"administrador"}]},
			{"id_usuario":8,"nombre":"Luis","email":"luis@tec.mx","activo":false,"rol":"estudiante"}
		]`))
	}))

	users, err := client.Users(context.Background(), "tok-adm")
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.True(t, users[0].IsAdmin())
	assert.True(t, users[0].Active)
	assert.False(t, users[1].IsAdmin())
	assert.True(t, users[1].Roles().Has(auth.RoleStudent))
}

func TestSetUserAdmin(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.Equal(t, "/admin/users/7/role", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, true, req["is_admin"])

		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	assert.NoError(t, client.SetUserAdmin(context.Background(), "tok-adm", 7, true))
}

func TestSetUserActive_Forbidden(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/admin/users/8/active", r.URL.Path)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"msg":"se requiere rol de administrador"}`))
	}))

	err := client.SetUserActive(context.Background(), "tok", 8, false)
	require.Error(t, err)
	assert.EqualError(t, err, "se requiere rol de administrador")
}
