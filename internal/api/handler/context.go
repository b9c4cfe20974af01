package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ContextKeyUsername is where the Auth middleware stores the verified author.
const ContextKeyUsername = "username"

// ctxIdentity returns the author injected by the Auth middleware. An empty value
// means the route was mounted without the guard; reject rather than write an
// anonymous post.
func ctxIdentity(c echo.Context) (string, error) {
	username, _ := c.Get(ContextKeyUsername).(string)
	if username == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return username, nil
}

// bindAndValidate decodes the JSON body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
