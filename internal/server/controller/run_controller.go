// Package controller implements the playground HTTP handlers.
package controller

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"codepad/internal/runner/recipe"
	"codepad/internal/runner/result"
	"codepad/internal/template"
	appErr "codepad/pkg/errors"
	"codepad/pkg/utils/response"
)

// Executor runs one submission; the dispatcher satisfies this.
type Executor interface {
	Execute(ctx context.Context, languageID, source string) result.Execution
}

// RunController handles code execution and language discovery.
type RunController struct {
	executor     Executor
	registry     *recipe.Registry
	maxCodeBytes int
}

// NewRunController creates the controller.
func NewRunController(executor Executor, registry *recipe.Registry, maxCodeBytes int) *RunController {
	if maxCodeBytes <= 0 {
		maxCodeBytes = 64 * 1024
	}
	return &RunController{executor: executor, registry: registry, maxCodeBytes: maxCodeBytes}
}

// RunRequest is the execution request body.
type RunRequest struct {
	Language string `json:"language" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// RunResponse is the execution outcome payload. A failed user program is a
// normal response, not a transport error.
type RunResponse struct {
	Success bool   `json:"success"`
	Kind    string `json:"kind"`
	Output  string `json:"output"`
	Error   string `json:"error,omitempty"`
	Stderr  string `json:"stderr,omitempty"`
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Extension string `json:"extension"`
}

// TemplateResponse carries a starter source.
type TemplateResponse struct {
	Language string `json:"language"`
	Source   string `json:"source"`
}

// Run executes submitted code and returns the classified outcome.
func (ctl *RunController) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "language and code are required")
		return
	}
	if len(req.Code) > ctl.maxCodeBytes {
		response.Error(c, appErr.New(appErr.CodeTooLarge))
		return
	}

	exec := ctl.executor.Execute(c.Request.Context(), req.Language, req.Code)
	switch exec.Kind {
	case result.KindSuccess:
		response.Success(c, RunResponse{
			Success: true,
			Kind:    exec.Kind.String(),
			Output:  exec.Stdout,
			Stderr:  exec.Stderr,
		})
	case result.KindTimeout:
		response.Success(c, RunResponse{
			Success: false,
			Kind:    exec.Kind.String(),
			Error:   exec.Message,
		})
	case result.KindFailure:
		message := exec.Stderr
		if message == "" {
			message = exec.Message
		}
		response.Success(c, RunResponse{
			Success: false,
			Kind:    exec.Kind.String(),
			Error:   message,
			Stderr:  exec.Stderr,
		})
	default:
		if strings.Contains(exec.Message, "not supported") {
			response.Error(c, appErr.New(appErr.LanguageNotSupported).WithDetail("language", req.Language))
			return
		}
		response.Error(c, appErr.New(appErr.SourceWriteFailed).WithMessage(exec.Message))
	}
}

// Languages lists supported languages in registry order.
func (ctl *RunController) Languages(c *gin.Context) {
	recipes := ctl.registry.List()
	infos := make([]LanguageInfo, 0, len(recipes))
	for _, rec := range recipes {
		infos = append(infos, LanguageInfo{ID: rec.ID, Name: rec.Name, Extension: rec.Extension})
	}
	response.Success(c, infos)
}

// Template returns the starter source for one language.
func (ctl *RunController) Template(c *gin.Context) {
	languageID := c.Param("language")
	if _, ok := ctl.registry.Resolve(languageID); !ok {
		response.Error(c, appErr.New(appErr.LanguageNotSupported).WithDetail("language", languageID))
		return
	}
	source, ok := template.Starter(languageID)
	if !ok {
		response.NotFound(c, "no template for language")
		return
	}
	response.Success(c, TemplateResponse{Language: languageID, Source: source})
}
