package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cast"

	"boostiq/config"
	"boostiq/pkg/cache"
	"boostiq/pkg/consts"
	controllersLib "boostiq/pkg/controllers"
	"boostiq/pkg/metrics"
	"boostiq/pkg/middlewares"
	repoLib "boostiq/pkg/repo"
	chainLib "boostiq/pkg/repo/driver/chain"
	"boostiq/pkg/repo/driver/db"
	"boostiq/pkg/repo/driver/medium"
	"boostiq/pkg/usecases"
	"boostiq/utilities"
)

func Run() {
	ctx := context.Background()
	ctx, cancelFn := context.WithCancel(ctx)

	// init the env config
	conf, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("unable to initialize configuration %s", err.Error())
	}

	// Initialise the logger
	utilities.InitLogger(conf.LogLevel)
	log := utilities.NewLogger("run")

	log.Info("Initialising ledger store")
	store, err := db.NewStore(conf.DB)
	if err != nil {
		log.WithError(err).Fatal("unable to open ledger store")
	}
	defer store.Close()

	log.Info("Initialising cache")
	cache.Init(cast.ToDuration(conf.Payment.ClaimTTL))

	// initialise the blockchain network clients
	log.Info("Initialising Chains")
	chainLib.LoadChains(ctx)
	if !chainLib.IsChainSupported(consts.Bsc) {
		log.Fatalf("%s is not listed in chain.supported", consts.Bsc)
	}

	log.Info("Initialising notification dispatcher")
	dispatcher := medium.NewDispatcher(medium.LogSink{})
	go dispatcher.SpawnSender(ctx)

	recorder := metrics.NewPrometheusRecorder()

	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	// here initalizing the router
	router := initRouter(conf)

	api := router.Group("/api")

	{
		// repo initialization
		subscriptionRepo := repoLib.NewSubscriptionRepo(store, conf)

		// initializing usecases
		paymentUsecases := usecases.NewPaymentUsecases(
			subscriptionRepo,
			chainLib.GetBlockchainClient(consts.Bsc),
			cache.GetClaimCache(cast.ToDuration(conf.Payment.ClaimTTL)),
			dispatcher,
			recorder,
			conf,
		)

		log.Info("Initialising subscription checker")
		repoLib.SubscriptionChecker(ctx, paymentUsecases)

		// initializing middleware
		m := middlewares.NewMiddlewares(conf)

		// initializing controllers
		paymentControllers := controllersLib.NewPaymentController(api, paymentUsecases, m)
		alertControllers := controllersLib.NewAlertController(api, dispatcher, m)
		controllers := controllersLib.NewController(router.Group("/"))

		// init the routes
		paymentControllers.InitRoutes()
		alertControllers.InitRoutes()
		controllers.InitRoutes()
	}

	// run the app
	launch(ctx, cancelFn, router)
}

func initRouter(conf *config.BoostiqConfModel) *gin.Engine {
	router := gin.Default()

	router.Use(
		cors.New(
			cors.Config{
				AllowOrigins: []string{"*"},
				AllowMethods: []string{"PUT", "POST", "GET", "OPTIONS"},
				AllowHeaders: []string{
					"Content-Type", "Content-Length", "Accept-Encoding", "Authorization", "accept",
					"origin", "Cache-Control",
				},
				AllowCredentials: true,
				MaxAge:           12 * time.Hour,
			},
		),
	)

	return router
}

// launch
func launch(ctx context.Context, cancelFn context.CancelFunc, router *gin.Engine) {
	log := utilities.NewLogger("launch")

	conf := config.GetConfig()
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.Server.Host, conf.Server.Port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %s\n", err)
		}
	}()
	log.Infof("Server listening on port %d", conf.Server.Port)

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown Server ...")
	cancelFn()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	log.Info("Server exiting")
}
