package api

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/payment"
	"bazaarwale-backend/internal/service"
)

func (a *API) calculateOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	calculation, err := a.orders.Calculate(c.Request.Context(), user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "calculation": calculation})
}

func (a *API) createOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var input service.CreateOrderInput
	if !a.bindJSON(c, &input) {
		return
	}
	order, gatewayOrder, err := a.orders.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"order":         order,
		"razorpayOrder": gatewayOrder,
	})
}

func (a *API) verifyPayment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	orderID, ok := a.objectIDParam(c, "orderId")
	if !ok {
		return
	}
	var input service.VerifyPaymentInput
	if !a.bindJSON(c, &input) {
		return
	}
	order, err := a.orders.VerifyPayment(c.Request.Context(), user.ID, orderID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"message": "Payment verified and order confirmed",
	})
}

// paymentWebhook acks authenticated gateway events with 200 so the gateway
// does not retry. Requests failing the HMAC check are rejected before any
// order is touched.
func (a *API) paymentWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"received": true, "error": "Processing failed"})
		return
	}
	if secret := a.cfg.Razorpay.WebhookSecret; secret != "" {
		if !payment.VerifyWebhookSignature(body, c.GetHeader("X-Razorpay-Signature"), secret) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid webhook signature"})
			return
		}
	}
	a.orders.HandleWebhook(c.Request.Context(), body)
	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (a *API) listUserOrders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	orders, err := a.orders.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (a *API) getUserOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	orderID, ok := a.objectIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := a.orders.GetForUser(c.Request.Context(), user.ID, orderID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (a *API) listVendorOrders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.Role != models.RoleVendor {
		a.fail(c, apperror.Forbidden("Vendor access required"))
		return
	}
	orders, err := a.orders.ListForVendor(c.Request.Context(), user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (a *API) listAdminOrders(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.Role != models.RoleAdmin {
		a.fail(c, apperror.Forbidden("Admin access required"))
		return
	}
	orders, err := a.orders.ListForAdmin(c.Request.Context(), service.AdminOrderFilter{
		AdminOnly: c.Query("filter") == "admin_only",
		Status:    c.Query("status"),
		Search:    c.Query("search"),
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

func (a *API) getAdminOrder(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.Role != models.RoleAdmin {
		a.fail(c, apperror.Forbidden("Admin access required"))
		return
	}
	orderID, ok := a.objectIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := a.orders.GetForAdmin(c.Request.Context(), orderID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

func (a *API) updateOrderStatus(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	orderID, ok := a.objectIDParam(c, "orderId")
	if !ok {
		return
	}
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !a.bindJSON(c, &body) {
		return
	}
	role := models.RoleVendor
	if user.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}
	order, err := a.orders.UpdateStatus(c.Request.Context(), orderID, body.Status, user.ID, role)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"message": "Order status updated successfully",
	})
}

func (a *API) updateExpectedDelivery(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if user.Role != models.RoleAdmin {
		a.fail(c, apperror.Forbidden("Admin access required"))
		return
	}
	orderID, ok := a.objectIDParam(c, "orderId")
	if !ok {
		return
	}
	var body struct {
		ExpectedDeliveryDate time.Time `json:"expectedDeliveryDate" binding:"required"`
	}
	if !a.bindJSON(c, &body) {
		return
	}
	order, err := a.orders.UpdateExpectedDelivery(c.Request.Context(), orderID, body.ExpectedDeliveryDate)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
		"message": "Expected delivery date updated successfully",
	})
}

func (a *API) getShippingConfig(c *gin.Context) {
	cfg, err := a.settings.ShippingConfig(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "config": cfg})
}

func (a *API) updateShippingConfig(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	var input service.ShippingConfigInput
	if !a.bindJSON(c, &input) {
		return
	}
	cfg, err := a.settings.UpdateShippingConfig(c.Request.Context(), input, admin.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "config": cfg, "message": "Shipping pricing updated"})
}
