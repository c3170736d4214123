package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jariyah/internal/zakat"
)

type ZakatHandler struct {
	Rates zakat.Rates
}

func NewZakatHandler(rates zakat.Rates) *ZakatHandler {
	return &ZakatHandler{Rates: rates}
}

// Calculate returns the zakat due on the posted assets.
func (h *ZakatHandler) Calculate(c *gin.Context) {
	var assets zakat.Assets
	if err := c.ShouldBindJSON(&assets); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := zakat.Calculate(assets, h.Rates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
