package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// HealthHandler reports database reachability plus basic pool usage for the
// /health/db endpoint.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		stat := pool.Stat()
		body := map[string]interface{}{
			"status":      "ok",
			"conns_total": stat.TotalConns(),
			"conns_idle":  stat.IdleConns(),
			"conns_max":   stat.MaxConns(),
		}

		if err := pool.Ping(ctx); err != nil {
			body["status"] = "unavailable"
			body["error"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, body)
		}
		return c.JSON(http.StatusOK, body)
	}
}
