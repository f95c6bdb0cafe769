package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"giftbridge/internal/domain/browser"
	"giftbridge/internal/domain/catalog"
	"giftbridge/internal/domain/giftcard"
	"giftbridge/internal/domain/payservice"
	otelinfra "giftbridge/internal/infrastructure/observability/otel"
)

// ErrorResponse エラーレスポンス
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// domainErrorMapping ドメインエラーとHTTPレスポンスの対応
type domainErrorMapping struct {
	target     error
	statusCode int
	code       string
	logMessage string
}

// エラー判定は定義順に行われる
var domainErrorMappings = []domainErrorMapping{
	{giftcard.ErrCardNotFound, http.StatusNotFound, "card_not_found", "Card not found"},
	{giftcard.ErrDuplicateCard, http.StatusConflict, "duplicate_card", "Duplicate card"},
	{giftcard.ErrCardNotPending, http.StatusConflict, "card_not_pending", "Card not pending"},
	{giftcard.ErrCardNotArchivable, http.StatusConflict, "card_not_archivable", "Card not archivable"},
	{giftcard.ErrInvalidStatusTransition, http.StatusConflict, "invalid_status_transition", "Invalid status transition"},
	{catalog.ErrCardConfigNotFound, http.StatusNotFound, "brand_not_supported", "Brand not supported"},
	{catalog.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount", "Invalid amount"},
	{catalog.ErrNoClaimLink, http.StatusConflict, "no_claim_link", "No claim link"},
	{payservice.ErrInvoiceNotFound, http.StatusNotFound, "invoice_not_found", "Invoice not found"},
	{payservice.ErrAccountTokenExpired, http.StatusUnauthorized, "account_token_expired", "Account token expired"},
	{payservice.ErrServiceUnavailable, http.StatusBadGateway, "pay_service_unavailable", "Pay service unavailable"},
	{payservice.ErrRedemptionFailed, http.StatusBadGateway, "redemption_failed", "Redemption failed"},
	{payservice.ErrSettlementChannelLost, http.StatusBadGateway, "settlement_channel_lost", "Settlement channel lost"},
	{browser.ErrBridgeUnavailable, http.StatusBadGateway, "bridge_unavailable", "Browser bridge unavailable"},
}

// ErrorHandlerMiddleware エラーハンドリングミドルウェア
func ErrorHandlerMiddleware(logger *otelinfra.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err == nil {
				return nil
			}

			return handleError(c, err, logger)
		}
	}
}

// handleError エラーを処理して適切なHTTPレスポンスを返す
func handleError(c echo.Context, err error, logger *otelinfra.Logger) error {
	ctx := c.Request().Context()

	for _, mapping := range domainErrorMappings {
		if errors.Is(err, mapping.target) {
			logger.Warn(ctx, mapping.logMessage, map[string]interface{}{
				"error": err.Error(),
			})
			return c.JSON(mapping.statusCode, ErrorResponse{
				Error:   mapping.code,
				Message: err.Error(),
			})
		}
	}

	// EchoのHTTPエラー
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		logger.Warn(ctx, "HTTP error", map[string]interface{}{
			"status_code": httpErr.Code,
			"message":     httpErr.Message,
		})
		message := ""
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(httpErr.Code)
		}
		return c.JSON(httpErr.Code, ErrorResponse{
			Error:   http.StatusText(httpErr.Code),
			Message: message,
		})
	}

	// 予期しないエラー
	logger.Error(ctx, "Internal server error", err, map[string]interface{}{
		"path": c.Request().URL.Path,
	})
	return c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_server_error",
		Message: "An unexpected error occurred",
	})
}
