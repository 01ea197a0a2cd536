package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	_ "ADMS-backend/docs"
	"ADMS-backend/internal/adms"
	"ADMS-backend/internal/attendance"
	"ADMS-backend/internal/commands"
	"ADMS-backend/internal/devices"
	"ADMS-backend/internal/platform/auth"
	"ADMS-backend/internal/platform/db"
	"ADMS-backend/internal/platform/logger"
	"ADMS-backend/internal/users"
)

// @title       ADMS backend
// @version     1.0
// @description Attendance terminal push protocol and admin API.
// @BasePath    /
func main() {
	configPath := flag.String("config", db.DefaultConfigPath, "path to config.yaml")
	flag.Parse()

	// 設定読み込み
	cfg, err := db.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Mode, cfg.Log.Level)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	log.Info("starting", zap.String("mode", cfg.Mode), zap.String("version", cfg.Version))

	if err := run(cfg, log); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *db.Config, log *zap.Logger) error {
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Info("connected to DB", zap.String("dbname", cfg.DB.DBName))

	if cfg.DB.Bootstrap {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := db.Bootstrap(ctx, conn)
		cancel()
		if err != nil {
			return err
		}
		log.Info("schema bootstrapped")
	}

	decoder, err := adms.NewDecoder(cfg.Protocol.PayloadCharset)
	if err != nil {
		return err
	}

	deviceSvc := devices.NewService(conn, time.Duration(cfg.Protocol.LivenessWindow))
	logSvc := attendance.NewService(conn)
	cmdSvc := commands.NewService(conn)
	userSvc := users.NewService(conn, cmdSvc)
	authSvc := auth.NewService(auth.NewStore(conn), []byte(cfg.Auth.JWTSecret))
	admsSvc := adms.NewService(adms.Options{
		Devices: deviceSvc,
		Events:  logSvc,
		Queue:   cmdSvc,
		Decoder: decoder,
		Metrics: adms.NewMetrics(prometheus.DefaultRegisterer),
		Logger:  log.Named("iclock"),
	})

	if cfg.Auth.JWTSecret == "" {
		if cfg.Mode == "release" {
			return errors.New("auth.jwt_secret is required in release mode")
		}
		log.Warn("auth.jwt_secret is empty, /api is not protected")
	}
	if ia := cfg.Auth.InitialAdmin; ia.ID != "" {
		created, err := authSvc.EnsureAdmin(context.Background(), ia.ID, ia.Password)
		if err != nil {
			return err
		}
		if created {
			log.Info("initial admin account created", zap.String("id", ia.ID))
		}
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(ginzap.GinzapWithConfig(log, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/healthz", "/metrics"},
	}))
	r.Use(ginzap.RecoveryWithZap(log, true))
	_ = r.SetTrustedProxies(nil)

	// /metrics
	ginprometheus.NewPrometheus("adms").Use(r)

	if cfg.Mode == "dev" {
		// CORS（開発中のみ必要）
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:3000"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowCredentials: true,
		}))
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// ヘルス
	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	// 端末向け（認証なし）
	adms.RegisterRoutes(r, admsSvc, log.Named("iclock"))

	// 管理 API
	api := r.Group("/api")
	protected := api.Group("")
	protected.Use(auth.RequireAuth([]byte(cfg.Auth.JWTSecret)))
	admin := protected.Group("")
	admin.Use(auth.RequireRole(auth.RoleAdmin))

	auth.RegisterRoutes(api, admin, authSvc)
	devices.RegisterRoutes(protected, deviceSvc)
	attendance.RegisterRoutes(protected, logSvc)
	commands.RegisterRoutes(protected, cmdSvc)
	users.RegisterRoutes(protected, userSvc)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		var err error
		if cfg.Server.TLS {
			// TLS設定
			dir := "config/tls/dev"
			if cfg.Mode == "release" {
				dir = "config/tls/release"
			}
			log.Info("listening (tls)", zap.String("addr", srv.Addr))
			err = srv.ListenAndServeTLS(dir+"/"+cfg.Certificate.Cert, dir+"/"+cfg.Certificate.Key)
		} else {
			log.Info("listening", zap.String("addr", srv.Addr))
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-quit:
	}

	log.Info("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
