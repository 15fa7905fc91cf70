package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/service"
)

func (a *API) getCommission(c *gin.Context) {
	percent, err := a.settings.CommissionPercent(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "commissionPercent": percent})
}

func (a *API) updateCommission(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	var body struct {
		CommissionPercent *float64 `json:"commissionPercent" binding:"required"`
	}
	if !a.bindJSON(c, &body) {
		return
	}
	updated, err := a.settings.SetCommissionPercent(c.Request.Context(), *body.CommissionPercent, admin.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "commissionPercent": updated, "message": "Commission updated"})
}

func (a *API) listAdminPayouts(c *gin.Context) {
	payouts, err := a.payouts.ListForAdmin(c.Request.Context(), service.ListPayoutsOptions{
		Status:   c.DefaultQuery("status", "all"),
		VendorID: c.Query("vendorId"),
		Search:   c.Query("search"),
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payouts": payouts})
}

func (a *API) createPayout(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	var input service.CreatePayoutInput
	if !a.bindJSON(c, &input) {
		return
	}
	payout, err := a.payouts.Create(c.Request.Context(), input, admin.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payout": payout, "message": "Payout created"})
}

func (a *API) updatePayout(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	payoutID, ok := a.objectIDParam(c, "payoutId")
	if !ok {
		return
	}
	var input service.UpdatePayoutInput
	if !a.bindJSON(c, &input) {
		return
	}
	payout, err := a.payouts.Update(c.Request.Context(), payoutID, input, admin.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payout": payout, "message": "Payout updated"})
}

func (a *API) vendorPayoutSummary(c *gin.Context) {
	vendor, _ := middleware.CurrentUser(c)
	summary, err := a.payouts.VendorSummary(c.Request.Context(), vendor.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

func (a *API) listVendorPayouts(c *gin.Context) {
	vendor, _ := middleware.CurrentUser(c)
	payouts, err := a.payouts.ListForVendor(c.Request.Context(), vendor.ID, c.DefaultQuery("status", "all"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payouts": payouts})
}
