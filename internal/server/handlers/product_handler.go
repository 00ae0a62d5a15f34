package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/JesVite28/products-front/internal/domain/models"
	"github.com/JesVite28/products-front/internal/service/catalog"
)

// ProductHandler exposes the product views and mutations over HTTP.
type ProductHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

// NewProductHandler constructs the HTTP handler adapter.
func NewProductHandler(svc *catalog.Service, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{svc: svc, logger: logger}
}

// List refreshes and returns the full product list.
func (h *ProductHandler) List(c *gin.Context) {
	if err := h.svc.ListAll(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": h.svc.Displayed()})
}

// Search runs the free-text query and returns the displayed list.
func (h *ProductHandler) Search(c *gin.Context) {
	if err := h.svc.Search(c.Request.Context(), c.Query("q")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": h.svc.Displayed()})
}

// Detail opens the detail view for one product.
func (h *ProductHandler) Detail(c *gin.Context) {
	product, ok := h.svc.OpenDetail(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// CloseDetail clears the detail selection.
func (h *ProductHandler) CloseDetail(c *gin.Context) {
	h.svc.CloseDetail()
	c.Status(http.StatusNoContent)
}

// Create validates and saves a new product.
func (h *ProductHandler) Create(c *gin.Context) {
	form, err := h.bindForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.svc.Create(c.Request.Context(), form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// Update applies a partial edit to an existing product.
func (h *ProductHandler) Update(c *gin.Context) {
	form, err := h.bindForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.svc.Update(c.Request.Context(), c.Param("id"), form)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// Delete removes a product.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindForm accepts the product form either as JSON (image as data URI)
// or as multipart with an image file that gets inlined here. The image
// is rejected before any request when it is not an image or too large.
func (h *ProductHandler) bindForm(c *gin.Context) (models.ProductForm, error) {
	var form models.ProductForm

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		form = models.ProductForm{
			Name:          c.PostForm("name"),
			Price:         c.PostForm("price"),
			Description:   c.PostForm("description"),
			Stock:         c.PostForm("stock"),
			ExpiryDate:    c.PostForm("date_caducity"),
			PurchaseDate:  c.PostForm("date_buy"),
			Provider:      c.PostForm("provider"),
			PurchasePrice: c.PostForm("price_buy"),
		}

		fileHeader, err := c.FormFile("image")
		if err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				return form, models.ErrInvalidImage
			}
			defer file.Close()

			data, err := io.ReadAll(io.LimitReader(file, models.MaxImageBytes+1))
			if err != nil {
				return form, models.ErrInvalidImage
			}

			uri, err := models.EncodeImage(fileHeader.Header.Get("Content-Type"), data)
			if err != nil {
				return form, err
			}
			form.Image = &uri
		}
		return form, nil
	}

	if err := c.ShouldBindJSON(&form); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		return form, errors.New("invalid request body")
	}
	if form.Image != nil {
		if err := models.ValidateImageURI(*form.Image); err != nil {
			return form, err
		}
	}
	return form, nil
}

func (h *ProductHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrReadOnly):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrMissingFields),
		errors.Is(err, models.ErrInvalidNumber),
		errors.Is(err, models.ErrNegativeStock),
		errors.Is(err, models.ErrNegativePrice),
		errors.Is(err, models.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "inventory service unavailable"})
	}
}
