package rest

import (
	"errors"
	"fmt"
	"strconv"

	"yatube/internal/service"

	"github.com/labstack/echo/v4"
)

// pathID reads a numeric path parameter. Anything that is not an id cannot
// name an existing resource, so it is reported as not found.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", name, c.Param(name), service.ErrNotFound)
	}
	return id, nil
}

// queryGroup reads the optional ?group= filter.
func queryGroup(c echo.Context) (*int64, error) {
	raw := c.QueryParam("group")
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, service.NewValidationError("group", "A valid integer is required.")
	}
	return &id, nil
}

// bodyDecoder defers reading the JSON body to the service, which decodes it
// only after the target is found and the caller is authorized.
func bodyDecoder(c echo.Context) service.Decoder {
	return func(dst any) error {
		err := c.Bind(dst)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return fmt.Errorf("%w: %v", service.ErrInvalidRequest, he.Message)
		}
		return err
	}
}
