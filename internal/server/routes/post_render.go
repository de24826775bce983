package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"agentviz/internal/batch"
	"agentviz/internal/server/middleware"
	"agentviz/pkg/conversation"
)

// RenderHandler consolidates message files and renders artifacts. With an
// agent name it renders that one conversation; without one it renders every
// agent found in the source.
func RenderHandler(c echo.Context) error {
	type renderRequest struct {
		Directory  string `json:"directory"`
		AgentName  string `json:"agent_name"`
		ExportJSON bool   `json:"export_json"`
		S3Bucket   string `json:"s3_bucket"`
		S3Prefix   string `json:"s3_prefix"`
		Parallel   int    `json:"parallel" validate:"gte=0,lte=64"`
	}

	type fileError struct {
		File  string `json:"file"`
		Error string `json:"error"`
	}

	type agentResponse struct {
		AgentName string      `json:"agent_name"`
		Path      string      `json:"path,omitempty"`
		Loaded    int         `json:"loaded"`
		Failed    []fileError `json:"failed,omitempty"`
		Error     string      `json:"error,omitempty"`
	}

	app := c.(*middleware.AppContext).App

	req := new(renderRequest)
	if err := c.Bind(req); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	src, err := app.Source(req.S3Bucket, req.S3Prefix, req.Directory)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()

	toResponse := func(r batch.AgentResult) agentResponse {
		resp := agentResponse{
			AgentName: r.AgentName,
			Path:      r.Path,
			Loaded:    len(r.Report.Loaded),
		}
		for _, f := range r.Report.Failed {
			resp.Failed = append(resp.Failed, fileError{File: f.File, Error: f.Err.Error()})
		}
		if r.Err != nil {
			resp.Error = r.Err.Error()
		}
		return resp
	}

	if req.AgentName != "" {
		conv, err := conversation.Consolidate(ctx, src, req.AgentName)
		if err != nil {
			return renderError(c, err)
		}
		res, err := app.Viz.VisualizeConversation(conv, "")
		if err != nil {
			return renderError(c, err)
		}
		if req.ExportJSON {
			if _, err := app.Viz.ExportConsolidated(conv, ""); err != nil {
				return renderError(c, err)
			}
		}
		return c.JSON(http.StatusOK, []agentResponse{toResponse(batch.AgentResult{
			AgentName: res.AgentName,
			Path:      res.Path,
			Report:    res.Report,
		})})
	}

	results, err := batch.RenderAll(ctx, src, app.Viz, batch.Options{
		ParallelAgents: req.Parallel,
		ExportJSON:     req.ExportJSON,
	})
	if err != nil {
		return renderError(c, err)
	}

	responses := make([]agentResponse, 0, len(results))
	for _, r := range results {
		responses = append(responses, toResponse(r))
	}
	return c.JSON(http.StatusOK, responses)
}

func renderError(c echo.Context, err error) error {
	var dup *conversation.DuplicateMessageError
	switch {
	case errors.Is(err, conversation.ErrNoMessagesFound):
		return c.String(http.StatusNotFound, err.Error())
	case errors.As(err, &dup), errors.Is(err, conversation.ErrEmptyConversation):
		return c.String(http.StatusUnprocessableEntity, err.Error())
	default:
		return c.String(http.StatusInternalServerError, err.Error())
	}
}
