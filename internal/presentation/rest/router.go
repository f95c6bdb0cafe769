package rest

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	lifecycleapp "giftbridge/internal/application/lifecycle"
	purchaseapp "giftbridge/internal/application/purchase"
	walletapp "giftbridge/internal/application/wallet"
	"giftbridge/internal/infrastructure/config"
	otelinfra "giftbridge/internal/infrastructure/observability/otel"
	"giftbridge/internal/presentation/rest/handler"
	restmiddleware "giftbridge/internal/presentation/rest/middleware"
)

// Router ローカルAPIルーター
type Router struct {
	echo            *echo.Echo
	purchaseHandler *handler.PurchaseHandler
	cardHandler     *handler.CardHandler
	walletHandler   *handler.WalletHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	purchaseService *purchaseapp.PurchaseApplicationService,
	walletService *walletapp.WalletApplicationService,
	lifecycleService *lifecycleapp.LifecycleApplicationService,
) (*Router, error) {
	e := echo.New()
	e.HideBanner = true

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	purchaseHandler := handler.NewPurchaseHandler(purchaseService)
	cardHandler := handler.NewCardHandler(walletService, lifecycleService)
	walletHandler := handler.NewWalletHandler(walletService)

	// ルーティングの設定
	setupRoutes(e, cfg, logger, purchaseHandler, cardHandler, walletHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:            e,
		purchaseHandler: purchaseHandler,
		cardHandler:     cardHandler,
		walletHandler:   walletHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// CORS設定
	// ローカルデーモンのためポップアップUIの拡張オリジンのみが想定だが、
	// オリジンはAPIキーで締めているためここでは緩く許可する
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "X-API-Key"},
	}))

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// セキュリティヘッダー
	e.Use(restmiddleware.SecurityHeadersMiddleware())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	purchaseHandler *handler.PurchaseHandler,
	cardHandler *handler.CardHandler,
	walletHandler *handler.WalletHandler,
) {
	// API v1グループ（APIキー必須）
	api := e.Group("/api/v1", restmiddleware.APIKeyMiddleware(&cfg.LocalAPI, logger))

	// 購入エンドポイント
	api.POST("/purchases", purchaseHandler.Purchase)

	// カード関連エンドポイント
	api.GET("/cards", cardHandler.ListCards)
	api.GET("/cards/:invoice_id", cardHandler.GetCard)
	api.POST("/cards/:invoice_id/archive", cardHandler.Archive)
	api.POST("/cards/:invoice_id/unarchive", cardHandler.Unarchive)
	api.POST("/cards/:invoice_id/redeem", cardHandler.RedeemPending)
	api.POST("/cards/:invoice_id/claim-link", cardHandler.LaunchClaimLink)
	api.POST("/cards/:invoice_id/menu", cardHandler.Menu)

	// 設定・カタログ関連エンドポイント
	api.GET("/supported-cards", walletHandler.ListSupportedCards)
	api.GET("/email", walletHandler.GetEmail)
	api.PUT("/email", walletHandler.SetEmail)

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown サーバーをシャットダウン
func (r *Router) Shutdown() error {
	return r.echo.Close()
}
