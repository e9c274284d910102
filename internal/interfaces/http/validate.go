package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ecolend-api/internal/domain"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// mensajes con el nombre JSON/query del campo
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

// validateStruct devuelve un *domain.ValidationError con el primer campo inválido.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return domain.NewValidationError(fmt.Sprintf("Field '%s' failed on '%s=%s'.", fe.Field(), fe.Tag(), fe.Param()))
		}
		return domain.NewValidationError(fmt.Sprintf("Field '%s' failed on '%s'.", fe.Field(), fe.Tag()))
	}
	return err
}

// parseBody decodifica y valida el cuerpo JSON. Devuelve el error ya escrito en la respuesta.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badBody(c)
	}
	if err := validateStruct(out); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}
