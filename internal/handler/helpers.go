package handler

import (
	"net/http"
	"reflect"

	"github.com/JohnDGC/oh-my-glasses/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se registra como numérico para que tags como
	// min=0 y gt=0 no provoquen pánico en el validador.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate hace bind del JSON y corre las validaciones de struct.
// Si devuelve false ya escribió la respuesta de error y el handler debe
// retornar sin escribir otra.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		campos := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			campos[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(campos))
		return false
	}
	return true
}
