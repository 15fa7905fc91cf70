package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/service"
)

func (a *API) listProductReviews(c *gin.Context) {
	productID, ok := a.objectIDParam(c, "productId")
	if !ok {
		return
	}
	page, err := a.reviews.ListForProduct(c.Request.Context(), productID,
		queryInt64(c, "page"), queryInt64(c, "limit"), c.Query("sortBy"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (a *API) getUserReview(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	productID, ok := a.objectIDParam(c, "productId")
	if !ok {
		return
	}
	review, err := a.reviews.GetUserReview(c.Request.Context(), productID, user.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review": review})
}

func (a *API) createReview(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	var input service.CreateReviewInput
	if !a.bindJSON(c, &input) {
		return
	}
	review, err := a.reviews.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Review created successfully", "review": review})
}

func (a *API) updateReview(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	reviewID, ok := a.objectIDParam(c, "reviewId")
	if !ok {
		return
	}
	var input service.UpdateReviewInput
	if !a.bindJSON(c, &input) {
		return
	}
	review, err := a.reviews.Update(c.Request.Context(), reviewID, user.ID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated successfully", "review": review})
}

func (a *API) deleteReview(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	reviewID, ok := a.objectIDParam(c, "reviewId")
	if !ok {
		return
	}
	if err := a.reviews.Delete(c.Request.Context(), reviewID, user.ID); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
