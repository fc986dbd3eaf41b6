package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	apperrors "marketplace-properties/internal/errors"
	"marketplace-properties/internal/middleware"
	"marketplace-properties/internal/models"
	"marketplace-properties/internal/query"
	"marketplace-properties/internal/services"
	"marketplace-properties/internal/utils"

	"github.com/gin-gonic/gin"
)

type PropertyHandler struct {
	queries   *services.PropertyQueryService
	mutations *services.PropertyService
}

func NewPropertyHandler(queries *services.PropertyQueryService, mutations *services.PropertyService) *PropertyHandler {
	return &PropertyHandler{queries: queries, mutations: mutations}
}

// GetProperties godoc
// @Summary Search available properties
// @Description Filtered, paginated search. Results are served from cache when possible.
// @Tags Properties
// @Produce json
// @Param city query string false "City"
// @Param compound query string false "Compound"
// @Param property_type query string false "Comma separated property types"
// @Param min_bedrooms query int false "Minimum bedrooms"
// @Param max_bedrooms query int false "Maximum bedrooms"
// @Param min_price query number false "Minimum price"
// @Param max_price query number false "Maximum price"
// @Param has_virtual_tour query bool false "Only listings with a virtual tour"
// @Param exclude_id query string false "Listing id to leave out"
// @Param context query string false "listing, search or detail" default(search)
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} models.PropertyPage
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /properties [get]
func (h *PropertyHandler) GetProperties(c *gin.Context) {
	params := c.Request.URL.Query()
	filter, err := query.ParseFilter(params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	pagination, err := query.ParsePagination(params)
	if err != nil {
		_ = c.Error(err)
		return
	}
	qc, err := query.ParseContext(params)
	if err != nil {
		_ = c.Error(err)
		return
	}

	page, err := h.queries.GetProperties(c.Request.Context(), filter, qc, pagination)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if link := utils.LinkHeader(c.Request.URL.Path, page.Page, page.Limit, page.TotalPages, params); link != "" {
		c.Header("Link", link)
	}
	c.Header("X-Total-Count", strconv.FormatInt(page.Total, 10))
	c.Set(middleware.ContextCacheHit, page.Performance.CacheHit)
	c.JSON(http.StatusOK, page)
}

// GetFeaturedProperties godoc
// @Summary Featured available properties
// @Tags Properties
// @Produce json
// @Param limit query int false "Number of listings" default(8)
// @Success 200 {object} map[string]interface{}
// @Router /properties/featured [get]
func (h *PropertyHandler) GetFeaturedProperties(c *gin.Context) {
	limit, err := queryInt(c, "limit", services.DefaultFeaturedLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	items, hit, err := h.queries.FeaturedProperties(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if items == nil {
		items = []models.PropertyListing{}
	}
	c.Set(middleware.ContextCacheHit, hit)
	c.JSON(http.StatusOK, gin.H{"items": items, "cacheHit": hit})
}

// GetStatistics godoc
// @Summary Market statistics over available properties
// @Tags Properties
// @Produce json
// @Success 200 {object} models.PropertyStatistics
// @Router /properties/statistics [get]
func (h *PropertyHandler) GetStatistics(c *gin.Context) {
	stats, hit, err := h.queries.Statistics(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Set(middleware.ContextCacheHit, hit)
	c.JSON(http.StatusOK, stats)
}

// GetPropertyByID godoc
// @Summary Property detail with photos and latest appraisal
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Success 200 {object} models.PropertyListing
// @Failure 404 {object} map[string]string
// @Router /properties/{id} [get]
func (h *PropertyHandler) GetPropertyByID(c *gin.Context) {
	listing, hit, err := h.queries.GetPropertyByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Set(middleware.ContextCacheHit, hit)
	c.JSON(http.StatusOK, listing)
}

// GetSimilarProperties godoc
// @Summary Available properties in the same city with the same type
// @Tags Properties
// @Produce json
// @Param id path string true "Property ID"
// @Param limit query int false "Number of listings" default(6)
// @Success 200 {object} models.PropertyPage
// @Failure 404 {object} map[string]string
// @Router /properties/{id}/similar [get]
func (h *PropertyHandler) GetSimilarProperties(c *gin.Context) {
	limit, err := queryInt(c, "limit", services.DefaultSimilarLimit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	page, err := h.queries.SimilarProperties(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Set(middleware.ContextCacheHit, page.Performance.CacheHit)
	c.JSON(http.StatusOK, page)
}

// CreateProperty godoc
// @Summary Create a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param property body models.PropertyInput true "Property data"
// @Security BearerAuth
// @Success 201 {object} models.Property
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /properties [post]
func (h *PropertyHandler) CreateProperty(c *gin.Context) {
	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(fmt.Errorf("invalid request body: %v: %w", err, apperrors.ErrInvalidParameters))
		return
	}

	property, err := h.mutations.CreateProperty(c.Request.Context(), &input, c.GetString(middleware.ContextUserID))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, property)
}

// UpdateProperty godoc
// @Summary Update a property
// @Tags Properties
// @Accept json
// @Produce json
// @Param id path string true "Property ID"
// @Param property body models.PropertyInput true "Property data"
// @Security BearerAuth
// @Success 200 {object} models.Property
// @Failure 404 {object} map[string]string
// @Router /properties/{id} [put]
func (h *PropertyHandler) UpdateProperty(c *gin.Context) {
	var input models.PropertyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(fmt.Errorf("invalid request body: %v: %w", err, apperrors.ErrInvalidParameters))
		return
	}

	property, err := h.mutations.UpdateProperty(c.Request.Context(), c.Param("id"), &input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, property)
}

// DeleteProperty godoc
// @Summary Delete a property
// @Tags Properties
// @Param id path string true "Property ID"
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /properties/{id} [delete]
func (h *PropertyHandler) DeleteProperty(c *gin.Context) {
	if err := h.mutations.DeleteProperty(c.Request.Context(), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}

func queryInt(c *gin.Context, name string, fallback int) (int, error) {
	v := c.Query(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", name, apperrors.ErrInvalidParameters)
	}
	return n, nil
}
