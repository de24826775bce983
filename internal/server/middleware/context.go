package middleware

import (
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/labstack/echo/v4"

	"agentviz/pkg/conversation"
	"agentviz/pkg/visualizer"
)

// App carries the shared collaborators handlers need: where message files
// live, where artifacts go, and the visualizer that connects the two.
type App struct {
	MessagesDir string
	OutputDir   string
	Viz         *visualizer.Visualizer

	S3       *s3.Client
	S3Bucket string
	S3Prefix string
}

// Source returns the message source a render should read from. An explicit
// bucket selects object storage; otherwise the local messages directory is
// used.
func (a *App) Source(bucket, prefix, dir string) (conversation.Source, error) {
	if bucket != "" {
		if a.S3 == nil {
			return nil, echo.NewHTTPError(400, "object storage is not configured")
		}
		return conversation.NewS3Source(a.S3, bucket, prefix), nil
	}
	if dir == "" {
		dir = a.MessagesDir
	}
	return conversation.NewDirSource(dir), nil
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
