package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/preview/models"
	"github.com/use-agent/preview/service"
)

// GetContent returns a handler for GET and POST /api/v1/content.
//
// GET reads the url query parameter; POST reads a JSON body {"url": "..."}.
func GetContent(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ContentRequest
		var err error
		if c.Request.Method == http.MethodGet {
			err = c.ShouldBindQuery(&req)
		} else {
			err = c.ShouldBindJSON(&req)
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    service.CodeInvalidArgument,
					Message: err.Error(),
				},
			})
			return
		}

		content, err := svc.GetContent(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, content)
	}
}

// respondError maps a StatusError to the HTTP status code and writes a
// structured JSON error response.
func respondError(c *gin.Context, err error) {
	var status *service.StatusError
	if !errors.As(err, &status) {
		status = &service.StatusError{Code: service.CodeInvalidArgument, Message: err.Error(), Err: err}
	}

	slog.Info("get content failed",
		"request_id", c.GetString("request_id"),
		"code", status.Code,
		"error", status.Message,
	)
	c.JSON(mapCodeToStatus(status.Code), models.ErrorResponse{Error: status.ToDetail()})
}

// mapCodeToStatus translates status codes to HTTP status codes.
func mapCodeToStatus(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound // 404
	case service.CodeInvalidArgument:
		return http.StatusBadRequest // 400
	default:
		return http.StatusInternalServerError // 500
	}
}
