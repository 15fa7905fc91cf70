package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/middleware"
	"bazaarwale-backend/internal/service"
)

func (a *API) listPublicBlogs(c *gin.Context) {
	result, err := a.blogs.ListPublic(c.Request.Context(), service.ListBlogsOptions{
		Search: c.Query("search"),
		Tag:    c.Query("tag"),
		Page:   queryInt64(c, "page"),
		Limit:  queryInt64(c, "limit"),
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) getPublicBlog(c *gin.Context) {
	blog, err := a.blogs.GetBySlugPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

func (a *API) listAdminBlogs(c *gin.Context) {
	result, err := a.blogs.ListForAdmin(c.Request.Context(), service.ListBlogsOptions{
		Search: c.Query("search"),
		Status: c.DefaultQuery("status", "all"),
		Page:   queryInt64(c, "page"),
		Limit:  queryInt64(c, "limit"),
	})
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (a *API) blogStats(c *gin.Context) {
	stats, err := a.blogs.StatsForAdmin(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (a *API) createBlog(c *gin.Context) {
	admin, _ := middleware.CurrentUser(c)
	var input service.BlogInput
	if !a.bindJSON(c, &input) {
		return
	}
	blog, err := a.blogs.Create(c.Request.Context(), input, admin.ID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"blog": blog})
}

func (a *API) getAdminBlog(c *gin.Context) {
	blogID, ok := a.objectIDParam(c, "blogId")
	if !ok {
		return
	}
	blog, err := a.blogs.GetByID(c.Request.Context(), blogID)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

func (a *API) updateBlog(c *gin.Context) {
	blogID, ok := a.objectIDParam(c, "blogId")
	if !ok {
		return
	}
	var input service.BlogUpdateInput
	if !a.bindJSON(c, &input) {
		return
	}
	blog, err := a.blogs.Update(c.Request.Context(), blogID, input)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

func (a *API) deleteBlog(c *gin.Context) {
	blogID, ok := a.objectIDParam(c, "blogId")
	if !ok {
		return
	}
	if err := a.blogs.Delete(c.Request.Context(), blogID); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}
