package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arju-vk/Bug-Tracker/internal/domain"
	"github.com/arju-vk/Bug-Tracker/internal/services"
)

func (h *Handlers) CreateProject(c *gin.Context) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Key         string `json:"key"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	p, err := h.svc.CreateProject(c.Request.Context(), actorID(c), services.CreateProjectInput{
		Name: req.Name, Description: req.Description, Key: req.Key,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderProject(c, http.StatusCreated, p)
}

func (h *Handlers) ListProjects(c *gin.Context) {
	projects, err := h.svc.ListProjects(c.Request.Context(), actorID(c))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	views, err := h.projectViews(c.Request.Context(), projects...)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handlers) GetProject(c *gin.Context) {
	p, err := h.svc.GetProject(c.Request.Context(), actorID(c), c.Param("id"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderProject(c, http.StatusOK, p)
}

func (h *Handlers) UpdateProject(c *gin.Context) {
	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	p, err := h.svc.UpdateProject(c.Request.Context(), actorID(c), c.Param("id"), services.ProjectPatch{
		Name: req.Name, Description: req.Description,
	})
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderProject(c, http.StatusOK, p)
}

func (h *Handlers) DeleteProject(c *gin.Context) {
	if err := h.svc.DeleteProject(c.Request.Context(), actorID(c), c.Param("id")); err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "project removed"})
}

func (h *Handlers) AddMember(c *gin.Context) {
	var req struct {
		UserID string      `json:"userId"`
		Role   domain.Role `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	p, err := h.svc.AddMember(c.Request.Context(), actorID(c), c.Param("id"), req.UserID, req.Role)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderProject(c, http.StatusOK, p)
}

func (h *Handlers) RemoveMember(c *gin.Context) {
	p, err := h.svc.RemoveMember(c.Request.Context(), actorID(c), c.Param("id"), c.Param("userId"))
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	h.renderProject(c, http.StatusOK, p)
}

func (h *Handlers) renderProject(c *gin.Context, code int, p *domain.Project) {
	views, err := h.projectViews(c.Request.Context(), *p)
	if err != nil {
		respondErr(c, h.log, err)
		return
	}
	c.JSON(code, views[0])
}
