package api

import (
	"context"
	"errors"
	"net/http"

	"FinSpread/internal/domain/models"
	xhttp "FinSpread/pkg/http"
)

// FromDomainError maps scan errors onto HTTP application errors.
func FromDomainError(err error) *xhttp.AppError {
	var (
		appErr *xhttp.AppError
		se     *models.StructuralError
		ie     *models.InsufficientDataError
	)
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.As(err, &se):
		return xhttp.NewAppError("ERR_PROVIDER_DATA", "", "provider returned a malformed option chain", http.StatusBadGateway).
			WithParam("path", se.Path).WithError(err)
	case errors.As(err, &ie):
		return xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "", "option chain has no contracts to analyze", http.StatusUnprocessableEntity).
			WithParam("stage", ie.Stage).WithError(err)
	case errors.Is(err, models.ErrUnknownSymbol):
		return xhttp.NotFoundErrorf("no option chain for symbol").WithError(err)
	case errors.Is(err, models.ErrProviderStatus):
		return xhttp.NewAppError("ERR_PROVIDER", "", "chain provider request failed", http.StatusBadGateway).WithError(err)
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.NewAppError("ERR_TIMEOUT", "", "chain provider timed out", http.StatusGatewayTimeout).WithError(err)
	default:
		return xhttp.InternalError("failed to analyze spreads").WithError(err)
	}
}
