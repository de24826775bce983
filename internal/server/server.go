package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mid "agentviz/internal/server/middleware"
	"agentviz/internal/util"
	"agentviz/pkg/conversation"
	"agentviz/pkg/logger"
	"agentviz/pkg/visualizer"

	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func Init() {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messagesDir := util.GetEnvString("MESSAGES_DIR", "conversations")
	outputDir := util.GetEnvString("OUTPUT_DIR", "visualizations")

	app := &mid.App{
		MessagesDir: messagesDir,
		OutputDir:   outputDir,
		Viz:         visualizer.New(outputDir),
		S3Bucket:    util.GetEnv("S3_BUCKET"),
		S3Prefix:    util.GetEnv("S3_PREFIX"),
	}

	if app.S3Bucket != "" {
		s3Client, err := conversation.NewS3Client(ctx)
		if err != nil {
			logger.Fatal("Failed to create S3 client", "err", err)
		}
		app.S3 = s3Client
	}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("16M"))

	RegisterRoutes(e)

	go func() {
		port := strconv.Itoa(util.GetEnvInt("PORT", 8080))
		logger.Info("Starting server", "port", port)
		if err := e.Start(":" + port); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
}
