package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emberapp/ember/internal/db"
	"github.com/emberapp/ember/internal/service/account"
)

type profileResponse struct {
	Name     string   `json:"name"`
	Age      *int     `json:"age,omitempty"`
	Gender   string   `json:"gender,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Location string   `json:"location,omitempty"`
}

func toProfileResponse(p *db.Profile) profileResponse {
	return profileResponse{
		Name:     p.Name,
		Age:      p.Age,
		Gender:   p.Gender,
		Bio:      p.Bio,
		Tags:     p.TagList(),
		Location: p.Location,
	}
}

func (h *handlers) getProfile(c *gin.Context) {
	profile, err := h.accounts.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

type profileUpdateRequest struct {
	Name     string   `json:"name" binding:"required"`
	Age      *int     `json:"age"`
	Gender   string   `json:"gender"`
	Bio      string   `json:"bio"`
	Tags     []string `json:"tags"`
	Location string   `json:"location"`
}

func (h *handlers) updateProfile(c *gin.Context) {
	var req profileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid profile payload")
		return
	}

	profile, err := h.accounts.UpdateProfile(c.Request.Context(), currentUserID(c), account.ProfileUpdate{
		Name:     req.Name,
		Age:      req.Age,
		Gender:   req.Gender,
		Bio:      req.Bio,
		Tags:     req.Tags,
		Location: req.Location,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProfileResponse(profile))
}

func (h *handlers) viewProfile(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}

	view, err := h.accounts.ViewProfile(c.Request.Context(), currentUserID(c), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
