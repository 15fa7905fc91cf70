package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/service"
)

func (a *API) vendorDashboardStats(c *gin.Context) {
	vendor, _ := middleware.CurrentUser(c)
	stats, err := a.vendors.Dashboard(c.Request.Context(), vendor.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func (a *API) vendorProfile(c *gin.Context) {
	vendor, _ := middleware.CurrentUser(c)
	profile, err := a.vendors.ProfileWithDocs(c.Request.Context(), vendor.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"vendor":       profile.Vendor,
		"verification": profile.Verification,
	})
}

func (a *API) updateVendorProfile(c *gin.Context) {
	vendor, _ := middleware.CurrentUser(c)
	var input service.VendorProfileInput
	if !a.bindJSON(c, &input) {
		return
	}
	updated, err := a.vendors.UpdateProfile(c.Request.Context(), vendor.ID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "vendor": updated, "message": "Profile updated"})
}
