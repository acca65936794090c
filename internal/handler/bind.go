package handler

import (
	"encoding/json"
	"mime"
	"strconv"

	"github.com/labstack/echo/v4"
)

// MIMEMergePatch is the media type of RFC 7396 merge patches.
const MIMEMergePatch = "application/merge-patch+json"

// bindPatch decodes a PATCH body.  echo's binder only knows
// application/json, so merge patches are decoded here; the absent vs null
// distinction is carried by the pointer fields of the target.
func bindPatch(c echo.Context, v any) error {
	ct := c.Request().Header.Get(echo.HeaderContentType)
	if ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil || (mt != MIMEMergePatch && mt != echo.MIMEApplicationJSON) {
			return echo.ErrUnsupportedMediaType
		}
	}
	return json.NewDecoder(c.Request().Body).Decode(v)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id > 0
}
