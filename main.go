package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"sekolah/bootstrap"
	btsConfig "sekolah/config"
	"sekolah/pkg/config"
	"sekolah/pkg/queue"
)

func init() {
	// register the config sections under config/
	btsConfig.Initialize()
}

// App holds what graceful shutdown needs to stop in order.
type App struct {
	server *http.Server
	worker *queue.Worker
}

func main() {
	env := parseFlags()

	app, err := setupApplication(env)
	if err != nil {
		log.Fatalf("application setup failed: %v", err)
	}

	app.start()
}

func parseFlags() string {
	var env string
	flag.StringVar(&env, "env", "", "load a suffixed .env file, e.g. --env=testing loads .env.testing")
	flag.Parse()
	return env
}

func setupApplication(env string) (*App, error) {
	config.InitConfig(env)

	bootstrap.SetupLogger()
	bootstrap.SetupDB()
	bootstrap.SetupRedis()

	gatewayClient := bootstrap.SetupGateway()
	if gatewayClient == nil {
		return nil, errors.New("midtrans gateway configuration is incomplete")
	}

	engine := bootstrap.SetupEngine(gatewayClient)
	queueService, worker := bootstrap.SetupQueue(engine)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	bootstrap.SetupRoute(router, engine, gatewayClient, queueService)

	return &App{
		server: &http.Server{
			Addr:    ":" + config.Get("app.port"),
			Handler: router,
		},
		worker: worker,
	}, nil
}

// start runs the server until SIGINT/SIGTERM, then drains workers and
// in-flight requests.
func (a *App) start() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on %s\n", a.server.Addr)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	<-quit
	log.Println("shutting down...")

	// stop pulling queue jobs before cutting the listener so no sync
	// is abandoned midway
	a.worker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
