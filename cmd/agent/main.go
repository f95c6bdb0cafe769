package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	lifecycleapp "giftbridge/internal/application/lifecycle"
	purchaseapp "giftbridge/internal/application/purchase"
	walletapp "giftbridge/internal/application/wallet"
	"giftbridge/internal/infrastructure/browserbridge"
	"giftbridge/internal/infrastructure/config"
	otelinfra "giftbridge/internal/infrastructure/observability/otel"
	"giftbridge/internal/infrastructure/payservice"
	"giftbridge/internal/infrastructure/persistence/mysql"
	"giftbridge/internal/presentation/rest"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// OpenTelemetryの初期化
	tracerShutdown, err := otelinfra.InitTracer(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown tracer: %v", err)
		}
	}()

	meterShutdown, err := otelinfra.InitMeter(&cfg.OpenTelemetry)
	if err != nil {
		log.Fatalf("Failed to initialize meter: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterShutdown(ctx); err != nil {
			log.Printf("Failed to shutdown meter: %v", err)
		}
	}()

	// ロガーとメトリクスの初期化
	tracer := otelinfra.Tracer("giftbridge")
	logger := otelinfra.NewLogger(tracer)
	metrics, err := otelinfra.NewMetrics("giftbridge")
	if err != nil {
		log.Fatalf("Failed to create metrics: %v", err)
	}

	// データベース接続の初期化
	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 永続化レイヤーの初期化
	txManager := mysql.NewTransactionManager(db)
	cardRepo := mysql.NewCardRepository(db, txManager)
	kvStore := mysql.NewKVStore(db)

	// 上流決済サービスクライアントの初期化
	// カタログ・インボイス・決済イベント・支払いURLを担う
	payClient := payservice.NewClient(&cfg.PayService, logger)
	tokenVerifier := payservice.NewTokenVerifier()

	// ブラウザー拡張ホストブリッジの初期化
	bridge := browserbridge.NewBridge(&cfg.Bridge, logger)

	// アプリケーションサービスの初期化
	purchaseService := purchaseapp.NewPurchaseApplicationService(
		payClient,
		cardRepo,
		payClient,
		payClient,
		payClient,
		tokenVerifier,
		bridge,
		kvStore,
		logger,
		metrics,
		cfg.PayService.SettlementTimeout,
	)

	walletService := walletapp.NewWalletApplicationService(
		cardRepo,
		payClient,
		kvStore,
		logger,
		metrics,
	)

	lifecycleService := lifecycleapp.NewLifecycleApplicationService(
		cardRepo,
		payClient,
		payClient,
		bridge,
		logger,
		metrics,
		cfg.PayService.SupportURL,
		cfg.PayService.UnarchiveSettleDelay,
		cfg.PayService.RedeemMaxAttempts,
		cfg.PayService.RedeemRetryInterval,
	)

	// ローカルAPIルーターの初期化
	router, err := rest.NewRouter(
		cfg,
		logger,
		metrics,
		purchaseService,
		walletService,
		lifecycleService,
	)
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}

	// ポップアップUIだけが到達できるようループバックに束縛する
	address := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)

	// グレースフルシャットダウンの設定
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Local API server starting on %s", address)
		if err := router.Start(address); err != nil {
			log.Printf("Local API server error: %v", err)
		}
	}()

	// シグナルを待機
	<-quit
	log.Println("Shutting down server...")

	if err := router.Shutdown(); err != nil {
		log.Printf("Error shutting down local API server: %v", err)
	}

	log.Println("Server stopped")
}
