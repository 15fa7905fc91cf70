package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"bazaarwale-backend/internal/apperror"
)

// uploadTo saves the multipart "file" field into the given folder and returns
// its public URL.
func (a *API) uploadTo(c *gin.Context, folder string) {
	header, err := c.FormFile("file")
	if err != nil {
		a.fail(c, apperror.BadRequest("File is required"))
		return
	}

	relPath, err := a.uploads.Save(header, folder)
	if err != nil {
		a.fail(c, err)
		return
	}

	baseURL := strings.TrimRight(a.cfg.App.BaseURL, "/")
	c.JSON(http.StatusCreated, gin.H{
		"file": gin.H{
			"id":           relPath,
			"originalName": header.Filename,
			"mimeType":     header.Header.Get("Content-Type"),
			"size":         header.Size,
			"url":          baseURL + "/uploads/" + relPath,
		},
	})
}

// uploadVendorApplication accepts KYC documents before the applicant has an
// account, so it stays unauthenticated.
func (a *API) uploadVendorApplication(c *gin.Context) {
	a.uploadTo(c, "vendor-applications")
}

func (a *API) uploadFile(c *gin.Context) {
	a.uploadTo(c, c.Query("folder"))
}

func (a *API) uploadReviewImage(c *gin.Context) {
	a.uploadTo(c, "reviews")
}
