package responses

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error          bool   `json:"error"`
	Code           int    `json:"code"`
	Message        string `json:"message"`
	HttpStatusCode int    `json:"-"`
}

var GeneralServerError = ErrorResponse{
	Error:          true,
	Code:           6,
	Message:        "Something went wrong. Please try again later",
	HttpStatusCode: 500,
}

var BadArgumentsError = ErrorResponse{
	Error:          true,
	Code:           8,
	Message:        "Bad arguments",
	HttpStatusCode: 400,
}

var BadAuthError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "bad auth",
	HttpStatusCode: 401,
}

var SellerNotVerifiedError = ErrorResponse{
	Error:          true,
	Code:           1,
	Message:        "seller is not verified",
	HttpStatusCode: 401,
}

var InvoiceNotFoundError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "invoice not found",
	HttpStatusCode: 404,
}

var InvalidInvoiceStateError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "invoice is not in the required state for this operation",
	HttpStatusCode: 400,
}

var FundingRoomExceededError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "amount exceeds the remaining funding room",
	HttpStatusCode: 400,
}

var NotEnoughBalanceError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "not enough balance or allowance for the payment transfer",
	HttpStatusCode: 400,
}

var NothingToClaimError = ErrorResponse{
	Error:          true,
	Code:           2,
	Message:        "no shares to claim for this invoice",
	HttpStatusCode: 400,
}

func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	c.Logger().Error(err)
	if hub := sentryecho.GetHubFromContext(c); hub != nil && isErrAllowedForSentry(err) {
		hub.WithScope(func(scope *sentry.Scope) {
			scope.SetExtra("RequestID", c.Response().Header().Get(echo.HeaderXRequestID))
			hub.CaptureException(err)
		})
	}
	if he, ok := err.(*echo.HTTPError); ok {
		c.JSON(he.Code, he.Message)
	} else {
		c.JSON(http.StatusInternalServerError, GeneralServerError)
	}
}

// auth failures are expected noise and never make it to sentry
func isErrAllowedForSentry(err error) bool {
	if httpError, ok := err.(*echo.HTTPError); ok {
		if m, ok := httpError.Message.(echo.Map); ok {
			if code, ok := m["code"].(int); ok && code == 1 {
				return false
			}
		}
	}
	return true
}
