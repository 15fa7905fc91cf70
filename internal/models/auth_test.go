package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequiredDocuments(t *testing.T) {
	complete := []VendorDocument{
		{Type: DocAadhaarFront, URL: "https://cdn/a-front.jpg"},
		{Type: DocAadhaarBack, URL: "https://cdn/a-back.jpg"},
		{Type: DocGstCertificate, URL: "https://cdn/gst.pdf"},
		{Type: DocPanCard, URL: "https://cdn/pan.jpg"},
	}
	assert.Empty(t, RequiredDocuments(complete))

	missing := RequiredDocuments([]VendorDocument{
		{Type: DocAadhaarFront, URL: "https://cdn/a-front.jpg"},
		{Type: DocPanCard, URL: ""}, // present but no file
	})
	assert.Equal(t, []string{DocAadhaarBack, DocGstCertificate, DocPanCard}, missing)

	assert.Len(t, RequiredDocuments(nil), 4)
}
