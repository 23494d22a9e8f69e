package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/Yodaime/cash-flow-keeper/internal/apierror"
	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/conciliacao"
	"github.com/Yodaime/cash-flow-keeper/internal/infra"
	"github.com/Yodaime/cash-flow-keeper/internal/middleware"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails;
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
		return false
	}
	return validar(c, req)
}

func validar(c *gin.Context, req interface{}) bool {
	if err := validate.Struct(req); err != nil {
		var ves validator.ValidationErrors
		if !errors.As(err, &ves) {
			c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
			return false
		}
		fields := make(map[string]string, len(ves))
		for _, fe := range ves {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// paramID parses the :id path parameter.
func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return uuid.Nil, false
	}
	return id, true
}

// ator returns the caller's profile. Routes using it sit behind
// middleware.CarregarPerfil, so a miss is a wiring bug.
func ator(c *gin.Context) cache.Perfil {
	p, ok := middleware.GetPerfil(c)
	if !ok {
		panic("handler: rota sem middleware.CarregarPerfil")
	}
	return p
}

// responderErro maps service errors to status codes. Unknown errors are
// logged and answered with the generic 500 envelope.
func responderErro(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNaoEncontrado):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrSemPermissao):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrConflito),
		errors.Is(err, conciliacao.ErrTransicaoInvalida),
		errors.Is(err, conciliacao.ErrFechamentoAprovado):
		status = http.StatusConflict
	case errors.Is(err, service.ErrEntradaInvalida):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrCredenciais):
		status = http.StatusUnauthorized
	case errors.Is(err, infra.ErrCircuitOpen), errors.Is(err, infra.ErrAnaliseNaoConfigurada):
		status = http.StatusServiceUnavailable
	case errors.Is(err, infra.ErrAnaliseRemota):
		log.Warn().Err(err).Str("request_id", c.GetString(middleware.RequestIDKey)).Msg("análise indisponível")
		c.JSON(http.StatusBadGateway, apierror.New("Serviço de análise indisponível no momento"))
		return
	}

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Msg("erro não tratado")
		c.JSON(status, apierror.Interno)
		return
	}
	c.JSON(status, apierror.New(err.Error()))
}
