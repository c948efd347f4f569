package http

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// appQueFalla monta una ruta cuyo handler responde con writeError(err),
// igual que cualquier handler real del API.
func appQueFalla(err error) *fiber.App {
	app := fiber.New()
	app.Get("/recurso", func(c *fiber.Ctx) error {
		return writeError(c, err)
	})
	return app
}

func cuerpoDe(t *testing.T, app *fiber.App) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/recurso", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores no clasificados (fallas de almacenamiento)
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteError_FallaDeStore_NoFiltraDetalleInterno(t *testing.T) {
	// Un error de driver arrastra host y credenciales parciales del DSN:
	// nada de eso puede llegar al caller.
	errDriver := fmt.Errorf("guardando transacción: %w",
		fmt.Errorf("failed to connect to host db-prod-7.internal:5432 (user kardex_rw): connection refused"))

	status, body := cuerpoDe(t, appQueFalla(errDriver))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Contains(t, body, `"INTERNAL"`)
	assert.Contains(t, body, "reintente")
	assert.NotContains(t, body, "db-prod-7.internal", "el host de la DB no debe filtrarse")
	assert.NotContains(t, body, "kardex_rw", "el usuario de la DB no debe filtrarse")
	assert.NotContains(t, body, "connection refused")
}

// ──────────────────────────────────────────────────────────────────────────────
// Errores clasificados siguen mapeándose por código
// ──────────────────────────────────────────────────────────────────────────────

func TestWriteError_ErroresDeDominio_MapeanPorCodigo(t *testing.T) {
	cases := []struct {
		nombre string
		err    error
		status int
		code   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"lock timeout", domain.ErrLockTimeout, http.StatusServiceUnavailable, "LOCK_TIMEOUT"},
		{"conflict", domain.ErrConflict, http.StatusConflict, "CONFLICT"},
	}
	for _, tc := range cases {
		t.Run(tc.nombre, func(t *testing.T) {
			status, body := cuerpoDe(t, appQueFalla(tc.err))
			assert.Equal(t, tc.status, status)
			assert.Contains(t, body, tc.code)
		})
	}
}

func TestWriteError_ValidationError_IncluyeCampo(t *testing.T) {
	status, body := cuerpoDe(t, appQueFalla(&domain.ValidationError{Field: "quantity", Reason: "debe ser mayor que cero"}))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, `"VALIDATION"`)
	assert.Contains(t, body, `"quantity"`)
}
