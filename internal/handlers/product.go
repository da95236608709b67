// internal/handlers/product.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/product-inventory/internal/config"
	"github.com/javajoker/product-inventory/internal/i18n"
	"github.com/javajoker/product-inventory/internal/services"
	"github.com/javajoker/product-inventory/internal/utils"
)

type ProductHandler struct {
	productService *services.ProductService
	storageService *services.StorageService
	pagination     config.PaginationConfig
}

func NewProductHandler(productService *services.ProductService, storageService *services.StorageService, pagination config.PaginationConfig) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storageService: storageService,
		pagination:     pagination,
	}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	params := utils.GetPaginationParams(c, h.pagination)

	var (
		page *services.ProductPage
		err  error
	)
	if params.HasSearch {
		page, err = h.productService.SearchProducts(c.Request.Context(), params.Search, params.Page, params.PageSize)
	} else {
		page, err = h.productService.FindAll(c.Request.Context(), params.Page, params.PageSize)
	}
	if err != nil {
		respondError(c, err, i18n.ResourceProduct)
		return
	}

	utils.SetPaginationHeaders(c, page.Page, page.PageSize, page.Total, page.TotalPages)
	utils.SuccessResponse(c, page)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), &req, userID)
	if err != nil {
		respondError(c, err, i18n.ResourceProduct)
		return
	}

	utils.CreatedResponse(c, product)
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, i18n.ResourceProduct)
	if !ok {
		return
	}

	product, err := h.productService.FindOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, i18n.ResourceProduct)
		return
	}

	utils.SuccessResponse(c, product)
}

// GET /products/sku/:sku
func (h *ProductHandler) GetProductBySku(c *gin.Context) {
	product, err := h.productService.FindBySku(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err, i18n.ResourceProduct)
		return
	}

	utils.SuccessResponse(c, product)
}

// PATCH /products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, i18n.ResourceProduct)
	if !ok {
		return
	}

	var req services.UpdateProductRequest
	if !bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, &req, userID)
	if err != nil {
		respondError(c, err, i18n.ResourceProduct)
		return
	}

	utils.SuccessResponse(c, product)
}

// DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	id, ok := parseID(c, i18n.ResourceProduct)
	if !ok {
		return
	}

	product, err := h.productService.Remove(c.Request.Context(), id, userID)
	if err != nil {
		respondError(c, err, i18n.ResourceProduct)
		return
	}

	utils.SuccessResponse(c, product)
}

// POST /products/upload-image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	options := services.ProductImageOptions

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, options.MaxSize+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadMissingFile), nil)
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadMissingFile), nil)
		return
	}
	defer file.Close()

	result, err := h.storageService.Upload(c.Request.Context(), file, options)
	if err != nil {
		if errors.Is(err, services.ErrInvalidFile) {
			reason := strings.TrimPrefix(err.Error(), services.ErrInvalidFile.Error()+": ")
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyUploadInvalidFile, reason), nil)
			return
		}
		logrus.WithError(err).Error("Failed to store upload")
		utils.InternalErrorResponse(c, i18n.T(lang, i18n.KeyUploadFailed))
		return
	}

	utils.SuccessResponse(c, result)
}
