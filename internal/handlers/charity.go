package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"jariyah/internal/impact"
	"jariyah/internal/models"
	"jariyah/internal/service"
)

type CharityHandler struct {
	Service *service.DonorService
}

func NewCharityHandler(svc *service.DonorService) *CharityHandler {
	return &CharityHandler{Service: svc}
}

type charityView struct {
	models.Charity
	FundingProgress float64             `json:"fundingProgress"`
	ImpactUnits     []impact.ImpactUnit `json:"impactUnits,omitempty"`
}

func (h *CharityHandler) ListCharities(c *gin.Context) {
	catalog, err := h.Service.Catalog(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]charityView, 0, len(catalog))
	for _, ch := range catalog {
		views = append(views, charityView{Charity: ch, FundingProgress: ch.FundingProgress()})
	}
	c.JSON(http.StatusOK, views)
}

// GetCharity returns one charity. With ?amount= it also lists what that
// amount would achieve.
func (h *CharityHandler) GetCharity(c *gin.Context) {
	ch, err := h.Service.Charity(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	view := charityView{Charity: ch, FundingProgress: ch.FundingProgress()}
	if raw := c.Query("amount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil || amount.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid amount: " + raw})
			return
		}
		view.ImpactUnits = impact.ImpactUnits(ch, amount)
	}
	c.JSON(http.StatusOK, view)
}
