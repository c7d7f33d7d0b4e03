package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/magicailabs/magicai/server/service/board"
	"github.com/magicailabs/magicai/server/service/chat"
	"github.com/magicailabs/magicai/server/service/remind"
)

// serviceError maps service-level failures to HTTP responses. Typed
// rejections carry user-facing (Spanish) messages and travel as 400s;
// anything unrecognized is logged and hidden behind a 500.
func serviceError(c echo.Context, err error) error {
	var limitErr *chat.LimitError
	if errors.As(err, &limitErr) {
		return echo.NewHTTPError(http.StatusBadRequest, limitErr.Error())
	}
	var duplicateErr *chat.DuplicateError
	if errors.As(err, &duplicateErr) {
		return echo.NewHTTPError(http.StatusBadRequest, duplicateErr.Error())
	}
	switch {
	case errors.Is(err, chat.ErrNotFound), errors.Is(err, board.ErrNotFound), errors.Is(err, remind.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	slog.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
