package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	purchaseapp "giftbridge/internal/application/purchase"
	"giftbridge/internal/domain/payservice"
)

// PurchaseHandler ギフトカード購入ハンドラー
type PurchaseHandler struct {
	purchaseService *purchaseapp.PurchaseApplicationService
}

// NewPurchaseHandler 新しいPurchaseHandlerを作成
func NewPurchaseHandler(purchaseService *purchaseapp.PurchaseApplicationService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// Purchase ギフトカード購入ハンドラー
// 決済レースが決着するまで応答を返さないため、クライアントは
// 長い待ちを前提にすること
// @Summary ギフトカードを購入
// @Description インボイスを作成し、支払いの決着を待って引き換えまで行います
// @Tags purchase
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body PurchaseRequest true "購入リクエスト"
// @Success 200 {object} PurchaseResponse "購入完了またはキャンセル"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Failure 401 {object} ErrorResponse "認証エラー"
// @Failure 502 {object} ErrorResponse "上流サービスエラー"
// @Router /purchases [post]
func (h *PurchaseHandler) Purchase(c echo.Context) error {
	var reqBody PurchaseRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if reqBody.Brand == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "brand is required")
	}
	if reqBody.Amount <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "amount must be positive")
	}

	req := &purchaseapp.PurchaseRequest{
		Brand:           reqBody.Brand,
		Amount:          reqBody.Amount,
		Currency:        reqBody.Currency,
		Email:           reqBody.Email,
		CurrentMerchant: reqBody.CurrentMerchant,
	}
	if reqBody.Account != nil {
		req.Account = &payservice.Account{
			Email: reqBody.Account.Email,
			Token: reqBody.Account.Token,
		}
	}

	resp, err := h.purchaseService.Purchase(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, PurchaseResponse{
		Card:      toGiftCardResponse(resp.Card),
		Cancelled: resp.Cancelled,
	})
}
