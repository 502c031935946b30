package http

import (
	"net/http"
	"os"

	"github.com/ghodss/yaml"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/syria-community/role-bridge/internal/util"
)

// RegisterSwagger serves the OpenAPI document at specPath as JSON under
// /swagger/doc.json and the Swagger UI under /swagger.
func RegisterSwagger(e *echo.Echo, specPath string) {
	e.GET("/swagger/doc.json", func(c echo.Context) error {
		data, err := os.ReadFile(specPath)
		if err != nil {
			c.Logger().Errorf("load swagger spec: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("Unable To Load Swagger Spec"))
		}
		jsonSpec, err := yaml.YAMLToJSON(data)
		if err != nil {
			c.Logger().Errorf("convert swagger spec: %v", err)
			return c.JSON(http.StatusInternalServerError, util.Error("Unable To Parse Swagger Spec"))
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, jsonSpec)
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
}
