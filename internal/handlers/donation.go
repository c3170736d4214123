package handlers

import (
	"log"
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/shopspring/decimal"

	"jariyah/internal/models"
	"jariyah/internal/recorder"
	"jariyah/internal/service"
)

type DonationHandler struct {
	Service *service.DonorService
}

func NewDonationHandler(svc *service.DonorService) *DonationHandler {
	return &DonationHandler{Service: svc}
}

// IdempotencyHeader carries a client-chosen key that makes a donation safe
// to retry. The key becomes the donation id.
const IdempotencyHeader = "Idempotency-Key"

var idempotencyKey = regexp.MustCompile(`^[A-Za-z0-9_.:-]{1,64}$`)

type CreateDonationRequest struct {
	CharityID   string           `json:"charityId"`
	Amount      decimal.Decimal  `json:"amount"`
	IsRecurring bool             `json:"isRecurring"`
	Frequency   models.Frequency `json:"frequency" binding:"omitempty,oneof=weekly monthly yearly"`
	Date        string           `json:"date"`
}

func (r CreateDonationRequest) toRecorder() (recorder.Request, error) {
	req := recorder.Request{
		CharityID:   r.CharityID,
		Amount:      r.Amount,
		IsRecurring: r.IsRecurring,
		Frequency:   r.Frequency,
	}
	if r.Date != "" {
		date, err := parseTime(r.Date, false)
		if err != nil {
			return recorder.Request{}, err
		}
		req.Date = &date
	}
	return req, nil
}

func (h *DonationHandler) bind(c *gin.Context) (recorder.Request, bool) {
	var body CreateDonationRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return recorder.Request{}, false
	}
	req, err := body.toRecorder()
	if err != nil {
		respondError(c, err)
		return recorder.Request{}, false
	}
	return req, true
}

func (h *DonationHandler) ListDonations(c *gin.Context) {
	window, err := windowFromQuery(c, h.Service.Now())
	if err != nil {
		respondError(c, err)
		return
	}

	donations, err := h.Service.Donations(c.Request.Context(), c.Param("userId"), window)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"window": window, "donations": donations})
}

// CreateDonation records a donation right away. Manual entries carry a
// date and may leave the charity empty. A retry with the same
// Idempotency-Key returns the stored donation instead of adding another.
func (h *DonationHandler) CreateDonation(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}
	if key := c.GetHeader(IdempotencyHeader); key != "" {
		if !idempotencyKey.MatchString(key) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + IdempotencyHeader})
			return
		}
		req.ID = key
	}

	result, err := h.Service.Donate(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CreateCheckout opens an online payment for a catalog charity.
func (h *DonationHandler) CreateCheckout(c *gin.Context) {
	req, ok := h.bind(c)
	if !ok {
		return
	}

	checkout, err := h.Service.StartCheckout(c.Request.Context(), c.Param("userId"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Payment link created.",
		"redirect_url": checkout.RedirectURL,
		"order_id":     checkout.OrderID,
	})
}

func (h *DonationHandler) HandlePaymentNotification(c *gin.Context) {
	var notification coreapi.TransactionStatusResponse
	if err := c.ShouldBindJSON(&notification); err != nil {
		log.Println("Failed to bind Midtrans notification:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification format"})
		return
	}
	if notification.OrderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing order_id"})
		return
	}

	result, err := h.Service.SettleCheckout(c.Request.Context(), notification.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}

	switch {
	case result.Duplicate:
		c.JSON(http.StatusOK, gin.H{"status": "ok (duplicate)"})
	case result.Donation == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok (not settled)"})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
