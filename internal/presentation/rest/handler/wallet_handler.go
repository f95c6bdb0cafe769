package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	walletapp "giftbridge/internal/application/wallet"
)

// WalletHandler 設定と購入可能ブランドのハンドラー
type WalletHandler struct {
	walletService *walletapp.WalletApplicationService
}

// NewWalletHandler 新しいWalletHandlerを作成
func NewWalletHandler(walletService *walletapp.WalletApplicationService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
	}
}

// GetEmail 保存済みメールアドレス取得ハンドラー
// @Summary 保存済みのメールアドレスを取得
// @Tags wallet
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} EmailResponse "メールアドレス（未保存時は空）"
// @Router /email [get]
func (h *WalletHandler) GetEmail(c echo.Context) error {
	email, err := h.walletService.GetEmail(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, EmailResponse{Email: email})
}

// SetEmail メールアドレス保存ハンドラー
// @Summary メールアドレスを保存
// @Tags wallet
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body SetEmailRequest true "メールアドレス"
// @Success 200 {object} EmailResponse "保存されたメールアドレス"
// @Failure 400 {object} ErrorResponse "不正なリクエスト"
// @Router /email [put]
func (h *WalletHandler) SetEmail(c echo.Context) error {
	var reqBody SetEmailRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	email := strings.TrimSpace(reqBody.Email)
	if email == "" || !strings.Contains(email, "@") {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")
	}

	if err := h.walletService.SetEmail(c.Request().Context(), email); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, EmailResponse{Email: email})
}

// ListSupportedCards 購入可能ブランド一覧ハンドラー
// @Summary 購入可能なブランドの一覧を取得
// @Tags wallet
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} ListSupportedCardsResponse "ブランド一覧"
// @Router /supported-cards [get]
func (h *WalletHandler) ListSupportedCards(c echo.Context) error {
	configs, err := h.walletService.ListSupportedCards(c.Request().Context())
	if err != nil {
		return err
	}

	cards := make([]SupportedCardResponse, len(configs))
	for i, cfg := range configs {
		cards[i] = SupportedCardResponse{
			Name:                 cfg.Name,
			Currency:             cfg.Currency,
			MinAmount:            cfg.MinAmount,
			MaxAmount:            cfg.MaxAmount,
			SupportedAmounts:     cfg.SupportedAmounts,
			DefaultClaimCodeType: cfg.DefaultClaimCodeType.String(),
			HasRedeemAction:      cfg.HasRedeemAction(),
		}
	}
	return c.JSON(http.StatusOK, ListSupportedCardsResponse{SupportedCards: cards})
}
