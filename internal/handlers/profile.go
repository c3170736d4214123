package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"jariyah/internal/service"
)

type ProfileHandler struct {
	Service *service.DonorService
}

func NewProfileHandler(svc *service.DonorService) *ProfileHandler {
	return &ProfileHandler{Service: svc}
}

// GetProfile returns the donor's profile. With ?fallback=true an
// unreachable store yields the default profile instead of a 503.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.Param("userId")

	if fallback, _ := strconv.ParseBool(c.Query("fallback")); fallback {
		profile, usedDefault, err := h.Service.ProfileOrDefault(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"profile": profile, "fallback": usedDefault})
		return
	}

	profile, err := h.Service.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile, "fallback": false})
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var patch service.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	profile, err := h.Service.UpdateProfile(c.Request.Context(), c.Param("userId"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) Dashboard(c *gin.Context) {
	window, err := windowFromQuery(c, h.Service.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	dashboard, err := h.Service.Dashboard(c.Request.Context(), c.Param("userId"), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

func (h *ProfileHandler) Recommendations(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit: " + raw})
			return
		}
		limit = n
	}

	recs, err := h.Service.Recommendations(c.Request.Context(), c.Param("userId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}
