// internal/api/firms.go
package api

import (
	"net/url"

	"github.com/labstack/echo/v4"

	apperrors "pe-insights/internal/common/errors"
	firmdetail "pe-insights/internal/queries/firms/firm-detail"
	"pe-insights/internal/store"
)

// pathParam returns the decoded value of a path parameter. Echo routes on
// the decoded path unless the request carries a distinct raw path, and only
// then are parameters still escaped.
func pathParam(c echo.Context, name string) (string, error) {
	raw := c.Param(name)
	if c.Request().URL.RawPath == "" {
		return raw, nil
	}
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", apperrors.NewInvalidQueryError("malformed path parameter " + name)
	}
	return value, nil
}

func (s *Server) handleListFirms(c echo.Context) error {
	doc := s.deps.State.Snapshot().Document(store.Firms)
	return success(c, echo.Map{
		"firms": doc.Value("pe_firms", map[string]interface{}{}),
	})
}

func (s *Server) handleFirmDetail(c echo.Context) error {
	name, err := pathParam(c, "name")
	if err != nil {
		return err
	}
	out, err := s.deps.FirmDetail.Execute(c.Request().Context(), &firmdetail.Input{FirmName: name})
	if err != nil {
		return err
	}
	return success(c, echo.Map{"firm": out.View()})
}
