package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/syria-community/role-bridge/internal/config"
	"github.com/syria-community/role-bridge/internal/logging"
	"github.com/syria-community/role-bridge/internal/repository/discord"
	"github.com/syria-community/role-bridge/internal/repository/ports"
	"github.com/syria-community/role-bridge/internal/repository/postgres"
	"github.com/syria-community/role-bridge/internal/service"
	httpx "github.com/syria-community/role-bridge/internal/transport/http"
	"github.com/syria-community/role-bridge/internal/util"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

// run owns every deferred cleanup so main can exit non-zero after they finish.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		shipper, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			return fmt.Errorf("logstash: %w", err)
		}
		defer func() {
			log.SetOutput(os.Stdout)
			if n := shipper.Dropped(); n > 0 {
				log.Printf("logstash: dropped %d log lines", n)
			}
			shipper.Close()
		}()
		log.SetOutput(io.MultiWriter(os.Stdout, shipper))
	}

	roles, err := config.LoadRoleTable(cfg.RoleMapFile)
	if err != nil {
		return fmt.Errorf("role map: %w", err)
	}

	var assignmentLog ports.AssignmentLogRepository
	if cfg.DatabaseURL != "" {
		db, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		assignmentLog = postgres.NewAssignmentLogRepo(db)
	}

	// A failed login leaves the HTTP API up; requests fail the readiness check.
	gateway, err := discord.New(cfg.DiscordToken)
	if err != nil {
		log.Printf("Bot Setup Failed: %v", err)
	} else {
		if err := gateway.Open(); err != nil {
			log.Printf("Bot Login Failed: %v", err)
		}
		defer gateway.Close()
	}

	var guilds ports.GuildGateway = discord.Offline{}
	if gateway != nil {
		guilds = gateway
	}
	roleService, err := service.NewRoleAssignmentService(guilds, roles, assignmentLog, service.RoleAssignmentConfig{
		GuildID:        cfg.GuildID,
		RequestTimeout: cfg.DiscordRequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("role service: %w", err)
	}

	var tokens *util.JWTManager
	if cfg.APIJWTSecret != "" {
		tokens = util.NewJWTManager(cfg.APIJWTSecret, 0)
	}

	e := httpx.NewRouter(cfg.AllowOrigins)
	httpx.RegisterRoles(e, roleService, tokens)
	httpx.RegisterSwagger(e, "docs/swagger.yaml")

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Server Running On Port %s", cfg.Port)
		serveErr <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	return nil
}
