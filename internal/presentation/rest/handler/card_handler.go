package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	lifecycleapp "giftbridge/internal/application/lifecycle"
	walletapp "giftbridge/internal/application/wallet"
)

// CardHandler 購入済みカードのハンドラー
type CardHandler struct {
	walletService    *walletapp.WalletApplicationService
	lifecycleService *lifecycleapp.LifecycleApplicationService
}

// NewCardHandler 新しいCardHandlerを作成
func NewCardHandler(
	walletService *walletapp.WalletApplicationService,
	lifecycleService *lifecycleapp.LifecycleApplicationService,
) *CardHandler {
	return &CardHandler{
		walletService:    walletService,
		lifecycleService: lifecycleService,
	}
}

// ListCards カード一覧ハンドラー
// @Summary 保有カードの一覧を取得
// @Tags cards
// @Produce json
// @Security ApiKeyAuth
// @Param includeArchived query bool false "アーカイブ済みを含めるか"
// @Success 200 {object} ListCardsResponse "カード一覧"
// @Router /cards [get]
func (h *CardHandler) ListCards(c echo.Context) error {
	includeArchived := c.QueryParam("includeArchived") == "true"

	cards, err := h.walletService.ListCards(c.Request().Context(), includeArchived)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ListCardsResponse{
		Cards: toGiftCardResponses(cards),
	})
}

// GetCard カード取得ハンドラー
// @Summary invoiceIdでカードを取得
// @Tags cards
// @Produce json
// @Security ApiKeyAuth
// @Param invoice_id path string true "インボイスID"
// @Success 200 {object} GiftCardResponse "カード"
// @Failure 404 {object} ErrorResponse "カードが存在しない"
// @Router /cards/{invoice_id} [get]
func (h *CardHandler) GetCard(c echo.Context) error {
	invoiceID := c.Param("invoice_id")
	if invoiceID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "invoice_id is required")
	}

	card, err := h.walletService.GetCard(c.Request().Context(), invoiceID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGiftCardResponse(card))
}

// Archive アーカイブハンドラー
// @Summary カードをアーカイブ
// @Tags cards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param invoice_id path string true "インボイスID"
// @Param request body ArchiveRequest false "アーカイブリクエスト"
// @Success 200 {object} ArchiveResponse "アーカイブ完了"
// @Failure 404 {object} ErrorResponse "カードが存在しない"
// @Failure 409 {object} ErrorResponse "アーカイブできない状態"
// @Router /cards/{invoice_id}/archive [post]
func (h *CardHandler) Archive(c echo.Context) error {
	invoiceID := c.Param("invoice_id")

	var reqBody ArchiveRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.lifecycleService.Archive(c.Request().Context(), &lifecycleapp.ArchiveRequest{
		InvoiceID:        invoiceID,
		CreatedInSession: reqBody.CreatedInSession,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, ArchiveResponse{
		Card:    toGiftCardResponse(resp.Card),
		Dismiss: resp.Dismiss,
	})
}

// Unarchive アーカイブ解除ハンドラー
// @Summary カードのアーカイブを解除
// @Tags cards
// @Produce json
// @Security ApiKeyAuth
// @Param invoice_id path string true "インボイスID"
// @Success 200 {object} GiftCardResponse "解除後のカード"
// @Failure 404 {object} ErrorResponse "カードが存在しない"
// @Router /cards/{invoice_id}/unarchive [post]
func (h *CardHandler) Unarchive(c echo.Context) error {
	invoiceID := c.Param("invoice_id")

	card, err := h.lifecycleService.Unarchive(c.Request().Context(), invoiceID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGiftCardResponse(card))
}

// RedeemPending 再引き換えハンドラー
// @Summary PENDINGのカードの引き換えを再試行
// @Tags cards
// @Produce json
// @Security ApiKeyAuth
// @Param invoice_id path string true "インボイスID"
// @Success 200 {object} GiftCardResponse "再試行後のカード"
// @Failure 404 {object} ErrorResponse "カードが存在しない"
// @Failure 409 {object} ErrorResponse "PENDING以外のカード"
// @Router /cards/{invoice_id}/redeem [post]
func (h *CardHandler) RedeemPending(c echo.Context) error {
	invoiceID := c.Param("invoice_id")

	card, err := h.lifecycleService.RedeemPending(c.Request().Context(), invoiceID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toGiftCardResponse(card))
}

// LaunchClaimLink クレームリンク起動ハンドラー
// @Summary 引き換え先URLを新しいタブで開く
// @Tags cards
// @Security ApiKeyAuth
// @Param invoice_id path string true "インボイスID"
// @Success 204 "タブ生成コマンド送信済み"
// @Failure 404 {object} ErrorResponse "カードが存在しない"
// @Failure 409 {object} ErrorResponse "引き換え導線がない"
// @Router /cards/{invoice_id}/claim-link [post]
func (h *CardHandler) LaunchClaimLink(c echo.Context) error {
	invoiceID := c.Param("invoice_id")

	if err := h.lifecycleService.LaunchClaimLink(c.Request().Context(), invoiceID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Menu メニュー操作ハンドラー
// @Summary カードへのメニュー操作を実行
// @Tags cards
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param invoice_id path string true "インボイスID"
// @Param request body MenuRequest true "メニュー操作"
// @Success 200 {object} MenuResponse "操作結果"
// @Failure 404 {object} ErrorResponse "カードが存在しない"
// @Router /cards/{invoice_id}/menu [post]
func (h *CardHandler) Menu(c echo.Context) error {
	invoiceID := c.Param("invoice_id")

	var reqBody MenuRequest
	if err := c.Bind(&reqBody); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	resp, err := h.lifecycleService.Menu(c.Request().Context(), &lifecycleapp.MenuRequest{
		InvoiceID:        invoiceID,
		Action:           lifecycleapp.MenuAction(reqBody.Action),
		CreatedInSession: reqBody.CreatedInSession,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MenuResponse{
		Card:    toGiftCardResponse(resp.Card),
		Dismiss: resp.Dismiss,
		Handled: resp.Handled,
	})
}
