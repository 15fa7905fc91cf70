package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/apperror"
	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/models"
	"bazaarwale-backend/internal/service"
)

func (a *API) listCategories(c *gin.Context) {
	listing, err := a.categories.List(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, listing)
}

func (a *API) createCategory(c *gin.Context) {
	var input service.CategoryInput
	if !a.bindJSON(c, &input) {
		return
	}
	category, err := a.categories.Create(c.Request.Context(), input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

func (a *API) updateCategory(c *gin.Context) {
	categoryID, ok := a.objectIDParam(c, "categoryId")
	if !ok {
		return
	}
	var input service.CategoryUpdateInput
	if !a.bindJSON(c, &input) {
		return
	}
	category, err := a.categories.Update(c.Request.Context(), categoryID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

func (a *API) deleteCategory(c *gin.Context) {
	categoryID, ok := a.objectIDParam(c, "categoryId")
	if !ok {
		return
	}
	if err := a.categories.Delete(c.Request.Context(), categoryID); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func queryInt64(c *gin.Context, name string) int64 {
	value, err := strconv.ParseInt(c.Query(name), 10, 64)
	if err != nil {
		return 0
	}
	return value
}

func (a *API) createProduct(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var input service.ProductInput
	if !a.bindJSON(c, &input) {
		return
	}
	// Vendors always create under their own account.
	if user.Role == models.RoleVendor && input.VendorID == "" {
		input.VendorID = user.ID.Hex()
	}
	product, err := a.products.Create(c.Request.Context(), input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (a *API) updateProduct(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	productID, ok := a.objectIDParam(c, "productId")
	if !ok {
		return
	}
	var input service.ProductUpdateInput
	if !a.bindJSON(c, &input) {
		return
	}

	if user.Role == models.RoleVendor {
		existing, err := a.products.GetByID(c.Request.Context(), productID)
		if err != nil {
			a.fail(c, err)
			return
		}
		if existing.Vendor != user.ID {
			a.fail(c, apperror.Forbidden("You do not have permission to update this product"))
			return
		}
		input.VendorID = nil
		input.ApprovedByAdmin = nil
	}

	product, err := a.products.Update(c.Request.Context(), productID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (a *API) getProduct(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	productID, ok := a.objectIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := a.products.GetByID(c.Request.Context(), productID)
	if err != nil {
		a.fail(c, err)
		return
	}
	if user.Role == models.RoleVendor && product.Vendor != user.ID {
		a.fail(c, apperror.Forbidden("You do not have permission to view this product"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (a *API) listProducts(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	opts := service.ListProductsOptions{
		Search: c.Query("search"),
		Limit:  queryInt64(c, "limit"),
	}
	// Vendors are always scoped to their own catalog.
	if user.Role == models.RoleVendor || c.Query("scope") == "mine" {
		opts.VendorID = &user.ID
	}
	products, err := a.products.List(c.Request.Context(), opts)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (a *API) listPublicProducts(c *gin.Context) {
	products, err := a.products.List(c.Request.Context(), service.ListProductsOptions{
		Search:        c.Query("search"),
		Limit:         queryInt64(c, "limit"),
		PublishedOnly: true,
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (a *API) getProductBySlug(c *gin.Context) {
	product, err := a.products.GetBySlugPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (a *API) deleteProduct(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	productID, ok := a.objectIDParam(c, "productId")
	if !ok {
		return
	}
	if err := a.products.Delete(c.Request.Context(), productID, user.ID, user.Role); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (a *API) listVendors(c *gin.Context) {
	vendors, err := a.vendors.List(c.Request.Context(), service.ListVendorsOptions{
		Status: c.DefaultQuery("status", "all"),
		Search: c.Query("search"),
		Limit:  queryInt64(c, "limit"),
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

func (a *API) adminApproveVendor(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	vendorID, ok := a.objectIDParam(c, "vendorId")
	if !ok {
		return
	}
	vendor, err := a.vendors.Approve(c.Request.Context(), vendorID, admin.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}

func (a *API) adminRejectVendor(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	vendorID, ok := a.objectIDParam(c, "vendorId")
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)
	vendor, err := a.vendors.Reject(c.Request.Context(), vendorID, admin.ID, body.Reason)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendor": vendor})
}
