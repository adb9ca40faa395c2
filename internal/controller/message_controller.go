// internal/controller/message_controller.go
package controller

import (
	"encoding/json"
	"net/http"

	"github.com/gracechapel/flocktext-backend/internal/auth"
	"github.com/gracechapel/flocktext-backend/internal/httputil"
	"github.com/gracechapel/flocktext-backend/internal/repository"
	"github.com/gracechapel/flocktext-backend/internal/service"
)

const logListLimit = 500

type MessageController struct {
	Dispatch *service.DispatchService
	Logs     repository.MessageLogRepositoryInterface
}

// SendMessage runs one bulk blast and returns the aggregate outcome.
func (c *MessageController) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req service.SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	result, err := c.Dispatch.Send(r.Context(), auth.AdminEmail(r.Context()), req)
	if err != nil {
		httputil.AppError(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]any{
		"ok":             true,
		"results":        result.Results,
		"recipientCount": result.RecipientCount,
	})
}

// ListLogs returns the most recent message logs, newest first.
func (c *MessageController) ListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := c.Logs.ListRecent(logListLimit)
	if err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"logs": logs})
}
