package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"commission-service/internal/domain"
)

// AdminListOrders sorts for fulfilment by default; ?sort=newest lists by
// creation time instead.
func (h *Handler) AdminListOrders(c *gin.Context) {
	sort := domain.ListFulfillment
	if c.Query("sort") == "newest" {
		sort = domain.ListNewest
	}

	orders, err := h.service.ListOrders(c.Request.Context(), sort)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) AdminGetOrder(c *gin.Context) {
	order, err := h.service.GetOrderByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) AdminCancel(c *gin.Context) {
	order, err := h.service.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminStartWriting(c *gin.Context) {
	order, err := h.service.StartWriting(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminDeliver(c *gin.Context) {
	var req DeliverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	order, err := h.service.Deliver(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.logger.Infow("admin delivered poem", "orderId", order.ID, "admin", c.GetString(adminSubjectKey))
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AdminSetTestimonialVisibility(c *gin.Context) {
	var req VisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if err := h.service.SetTestimonialVisibility(c.Request.Context(), c.Param("id"), *req.Visible); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
