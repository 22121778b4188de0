package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func (h *handlers) discover(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "invalid limit")
			return
		}
		limit = n
	}

	candidates, err := h.matching.Discover(c.Request.Context(), currentUserID(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": candidates})
}

func (h *handlers) like(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}

	result, err := h.matching.Like(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		writeError(c, err)
		return
	}

	resp := gin.H{
		"liked":         true,
		"match_created": result.MatchCreated,
	}
	if result.MatchCreated {
		resp["match_id"] = result.Match.ID
		resp["message"] = "It's a match!"
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) unlike(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid user id")
		return
	}

	dissolved, err := h.matching.Unlike(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"unliked":         true,
		"match_dissolved": dissolved,
	})
}

func (h *handlers) listMatches(c *gin.Context) {
	summaries, err := h.matching.Matches(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": summaries})
}
