package controller

import (
	"github.com/gin-gonic/gin"

	"codepad/internal/snippet"
	appErr "codepad/pkg/errors"
	"codepad/pkg/utils/response"
)

// SnippetController handles saving and sharing snippets. A nil service
// means snippet storage is not configured.
type SnippetController struct {
	service *snippet.Service
}

// NewSnippetController creates the controller.
func NewSnippetController(service *snippet.Service) *SnippetController {
	return &SnippetController{service: service}
}

// SaveRequest is the snippet creation body.
type SaveRequest struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// SaveResponse carries the new snippet id.
type SaveResponse struct {
	ID string `json:"id"`
}

// Save stores a snippet and returns its shareable id.
func (ctl *SnippetController) Save(c *gin.Context) {
	if ctl.service == nil {
		response.Error(c, appErr.New(appErr.SnippetDisabled))
		return
	}
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "language and code are required")
		return
	}
	id, err := ctl.service.Save(c.Request.Context(), req.Language, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, SaveResponse{ID: id})
}

// Get loads a snippet by id.
func (ctl *SnippetController) Get(c *gin.Context) {
	if ctl.service == nil {
		response.Error(c, appErr.New(appErr.SnippetDisabled))
		return
	}
	s, err := ctl.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, s)
}
