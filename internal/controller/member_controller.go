// internal/controller/member_controller.go
package controller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/gracechapel/flocktext-backend/internal/httputil"
	"github.com/gracechapel/flocktext-backend/internal/service"
)

type MemberController struct {
	Members *service.MemberService
}

// ListMembers returns the directory for the dashboard, newest first.
func (c *MemberController) ListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := c.Members.List()
	if err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"members": members})
}

// CreateMember adds one member from the admin screen.
func (c *MemberController) CreateMember(w http.ResponseWriter, r *http.Request) {
	var input service.MemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	member, err := c.Members.Create(input)
	if err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, map[string]any{"member": member})
}

// BulkImportMembers ingests a CSV-style batch, skipping duplicates.
func (c *MemberController) BulkImportMembers(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Members []service.MemberInput `json:"members"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	result, err := c.Members.BulkImport(body.Members)
	if err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, result)
}

// UpdateMemberStatus flips a member between subscribed and suspended.
func (c *MemberController) UpdateMemberStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	member, err := c.Members.ChangeStatus(id, body.Status)
	if err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"member": member})
}

// DeleteMember removes a member entirely.
func (c *MemberController) DeleteMember(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	if err := c.Members.Delete(id); err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, map[string]any{"ok": true})
}

// Register is the public self-registration endpoint; an existing phone is
// re-subscribed rather than rejected.
func (c *MemberController) Register(w http.ResponseWriter, r *http.Request) {
	var input service.MemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httputil.Error(w, http.StatusBadRequest, "Invalid input")
		return
	}

	member, existed, err := c.Members.Register(input)
	if err != nil {
		httputil.AppError(w, err)
		return
	}
	httputil.JSON(w, http.StatusCreated, map[string]any{
		"ok":      true,
		"existed": existed,
		"member":  member,
	})
}
