package main

import (
	"context"
	"errors"
	"hrc/src/boot"
	"hrc/src/config"
	"hrc/src/middlewares"
	"hrc/src/types"
	"hrc/src/utils"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path"
	"regexp"
	"strconv"
	"syscall"
	"time"

	"github.com/covalenthq/lumberjack"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	apiPrefix string = "/api/v1"
)

var paymentTypeValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	switch types.PaymentType(fl.Field().String()) {
	case types.PAYMENT_FULL, types.PAYMENT_HALF:
		return true
	}
	return false
}

// opstatus only admits the statuses staff can move a booking to.
var opStatusValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	_, ok := types.OperationalStatus(fl.Field().String()).Previous()
	return ok
}

var isoDateValidatorFunc validator.Func = func(fl validator.FieldLevel) bool {
	date, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	_, err := time.Parse(config.DATE_FORMAT, date)
	return err == nil
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("paymenttype", paymentTypeValidatorFunc)
		v.RegisterValidation("opstatus", opStatusValidatorFunc)
		v.RegisterValidation("isodate", isoDateValidatorFunc)
	}
}

func setupRouter() *gin.Engine {
	router := gin.Default()
	router.Use(middlewares.SecureHeaders)
	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, "ok")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return router
}

func maintenanceModeMiddleware(g *gin.Engine) *gin.Engine {
	g.Use(func(ctx *gin.Context) {
		mm := os.Getenv("MAINTENANCE_MODE")
		on, err := strconv.ParseBool(mm)
		if err == nil && on {
			err := errors.New("server is under maintenance")
			log.Println(err.Error())
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
	})
	return g
}

func apiv1Group(g *gin.Engine) *gin.RouterGroup {
	apiv1 := g.Group(apiPrefix)
	return apiv1
}

func corsMiddleware(apiEnv string) gin.HandlerFunc {
	if apiEnv == string(types.Local) {
		return cors.Default()
	}
	appHost := os.Getenv("APP_HOST")
	cc := cors.DefaultConfig()
	cc.AllowMethods = append(cc.AllowMethods, "GET", "POST", "PATCH", "PUT", "DELETE", "HEAD")
	cc.AllowHeaders = append(cc.AllowHeaders, "Origin", "Authorization", "x-callback-token")
	cc.AllowOriginFunc = func(origin string) bool {
		if appHost == "" {
			return false
		}
		match, _ := regexp.MatchString(appHost, origin)
		return match
	}
	cc.AllowCredentials = true
	cc.AllowAllOrigins = false
	return cors.New(cc)
}

// setupRoutes mounts every route group on the router.
func setupRoutes(router *gin.Engine) *gin.Engine {
	registerValidators()
	router = maintenanceModeMiddleware(router)

	apiv1 := apiv1Group(router)
	bookingHandlers(apiv1.Group("/bookings"))
	webhookHandlers(apiv1.Group("/bookings/webhook"))
	authHandlers(apiv1.Group("/auth"))

	admin := apiv1.Group("/admin")
	admin.Use(middlewares.AuthMiddleware)
	adminHandlers(admin)
	catalogHandlers(admin)
	return router
}

func initLogger() {
	cwd, _ := os.Getwd()
	logsDir := path.Join(cwd, "logs")
	os.MkdirAll(logsDir, 0o755)
	serverLogs := path.Join(logsDir, "server.log")
	apiLogs := path.Join(logsDir, "api.log")
	gin.ForceConsoleColor()

	f, _ := os.Create(apiLogs)
	gin.DefaultWriter = io.MultiWriter(f, os.Stdout)
	log.SetOutput(&lumberjack.Logger{
		Filename:   serverLogs,
		MaxSize:    500,
		MaxBackups: 3,
		MaxAge:     30,
		Compress:   true,
	})
}

func main() {
	apiEnv := os.Getenv("API_ENV")
	if apiEnv == string(types.Local) {
		cwd, _ := os.Getwd()
		if err := godotenv.Load(path.Join(cwd, ".env")); err != nil {
			panic(err)
		}
	}
	initLogger()
	settings := config.GetSettings()

	boot.InitDb()
	boot.InitAssets()
	boot.InitScheduler()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	boot.InitConsumers(ctx)

	router := setupRouter()
	router.Use(corsMiddleware(apiEnv))
	setupRoutes(router)

	srv := &http.Server{
		Addr:    ":" + settings.Port,
		Handler: router.Handler(),
	}
	go func() {
		log.Printf("Listening on %s (assets in %s)\n", srv.Addr, utils.AssetsDir())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %s", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %s\n", err.Error())
	}
	boot.StopScheduler()
	log.Println("Server exiting")
}
