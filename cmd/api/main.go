package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/gourmet/gateway"
	"github.com/example/gourmet/pkg/auth"
	"github.com/example/gourmet/pkg/cart"
	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/discovery"
	"github.com/example/gourmet/pkg/grpc"
	"github.com/example/gourmet/pkg/logger"
	"github.com/example/gourmet/pkg/notify"
	"github.com/example/gourmet/pkg/repository"
	"github.com/example/gourmet/pkg/service"
	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file, empty for defaults and env only")
	healthcheck := flag.Bool("healthcheck", false, "probe the gRPC health service of a running instance and exit")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer log.Sync()

	if *healthcheck {
		code := probe(cfg, log)
		_ = log.Sync()
		os.Exit(code)
	}

	log.Info("Starting API",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Driver))

	ctx := context.Background()

	// Storage
	store, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			log.Error("Failed to close store", zap.Error(err))
		}
	}()

	redis := repository.NewRedisRepository(&cfg.Redis)
	defer redis.Close()

	if err := redis.Ping(ctx); err != nil {
		log.Warn("Redis connection failed", zap.Error(err))
	} else {
		log.Info("Redis connected successfully")
	}

	// Order confirmations
	mailer, err := notify.NewMailer(ctx, &cfg.Mail, log)
	if err != nil {
		log.Fatal("Failed to create mailer", zap.Error(err))
	}
	notifier, err := notify.NewNotifier(mailer, log)
	if err != nil {
		log.Fatal("Failed to start notifier", zap.Error(err))
	}
	defer notifier.Stop()

	// Services
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	orders := service.NewOrderService(store, store, store, cfg.Orders, log).
		WithIdempotency(redis).
		WithNotifier(notifier)

	gw := gateway.NewGateway(cfg, log, gateway.Services{
		Auth:   service.NewAuthService(store, store, tokens, redis, cfg.Auth.BcryptCost, log),
		Users:  service.NewUserService(store, store, redis, log),
		Menu:   service.NewMenuService(store, redis, log),
		Orders: orders,
		Carts:  cart.NewRedisStore(redis, cfg.Redis.CartTTL),
		Health: map[string]gateway.Pinger{"store": store, "redis": redis},
	})

	errCh := make(chan error, 2)
	go func() {
		if err := gw.Start(); err != nil {
			errCh <- fmt.Errorf("gateway: %w", err)
		}
	}()

	var health *grpc.HealthServer
	if cfg.GRPC.Enabled {
		health = grpc.NewHealthServer(&cfg.GRPC, cfg.Server.Name,
			map[string]grpc.Pinger{"store": store, "redis": redis}, log)
		health.Watch(10 * time.Second)
		go func() {
			if err := health.Start(); err != nil {
				errCh <- fmt.Errorf("grpc health: %w", err)
			}
		}()
	}

	// Service discovery
	var sd *discovery.ServiceDiscovery
	instance := &discovery.ServiceInstance{Name: cfg.Server.Name, Host: cfg.Server.Host, Port: cfg.Server.Port}
	if cfg.GRPC.Enabled {
		instance.Port = cfg.GRPC.Port
	}
	if len(cfg.Etcd.Endpoints) > 0 {
		sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, log)
		if err != nil {
			log.Warn("Failed to connect to etcd, continuing without service discovery", zap.Error(err))
		} else if err := sd.Register(ctx, instance); err != nil {
			log.Warn("Failed to register service", zap.Error(err))
		} else {
			log.Info("Service registered in etcd",
				zap.String("name", instance.Name),
				zap.String("address", instance.Addr()))
		}
	}

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Info("Received shutdown signal")
	case err := <-errCh:
		log.Error("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if sd != nil {
		if err := sd.Deregister(shutdownCtx, instance); err != nil {
			log.Error("Failed to deregister service", zap.Error(err))
		}
		sd.Close()
	}
	if health != nil {
		health.Stop()
	}
	if err := gw.Shutdown(shutdownCtx); err != nil {
		log.Error("Gateway shutdown failed", zap.Error(err))
	}

	log.Info("API stopped")
}

// probe checks a running instance, found through etcd when configured, and
// returns the process exit code.
func probe(cfg *config.Config, log *zap.Logger) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var sd *discovery.ServiceDiscovery
	if len(cfg.Etcd.Endpoints) > 0 {
		var err error
		if sd, err = discovery.NewServiceDiscovery(&cfg.Etcd, log); err != nil {
			log.Warn("Failed to connect to etcd", zap.Error(err))
			sd = nil
		} else {
			defer sd.Close()
		}
	}

	fallback := fmt.Sprintf("localhost:%d", cfg.GRPC.Port)
	target := grpc.ResolveTarget(ctx, sd, cfg.Server.Name, fallback, log)

	client, err := grpc.NewHealthClient(target, log)
	if err != nil {
		log.Error("Health probe failed", zap.Error(err))
		return 1
	}
	defer client.Close()

	status, err := client.Check(ctx, cfg.Server.Name)
	if err != nil {
		log.Error("Health probe failed", zap.String("target", target), zap.Error(err))
		return 1
	}

	log.Info("Health probe", zap.String("target", target), zap.String("status", status.String()))
	if status != healthpb.HealthCheckResponse_SERVING {
		return 1
	}
	return 0
}
