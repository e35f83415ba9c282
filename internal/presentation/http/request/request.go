// Package request decodes path parameters and bodies into application errors.
package request

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/gridlock/pkg/errorbank"
)

// ID parses a positive integer path parameter.
func ID(c echo.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errorbank.Validation("invalid "+name,
			errorbank.WithDetail(name, "must be a positive integer"),
			errorbank.WithCause(err),
		)
	}
	return id, nil
}

// Bind decodes the request body into dst.
func Bind(c echo.Context, dst any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, dst); err != nil {
		return errorbank.Validation("invalid payload", errorbank.WithCause(err))
	}
	return nil
}
