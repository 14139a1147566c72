package handler

import (
	"net/http"
	"strconv"

	"diamondtrade/internal/service"
	"diamondtrade/pkg/pagination"
	"diamondtrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type DiamondHandler struct {
	diamondService service.DiamondService
}

func NewDiamondHandler(diamondService service.DiamondService) *DiamondHandler {
	return &DiamondHandler{diamondService: diamondService}
}

func (h *DiamondHandler) RegisterRoutes(router *gin.RouterGroup) {
	diamonds := router.Group("/api/diamonds")
	{
		diamonds.GET("", h.ListDiamonds)
		diamonds.POST("", h.CreateDiamond)
		diamonds.GET("/:id", h.GetDiamond)
		diamonds.PUT("/:id", h.UpdateDiamond)
		diamonds.DELETE("/:id", h.DeleteDiamond)
	}
}

// ListDiamonds returns paginated diamond lots
// @Summary      List diamonds
// @Tags         diamonds
// @Produce      json
// @Param        page       query     int     false  "Page number (default: 1)"
// @Param        limit      query     int     false  "Items per page (default: 20)"
// @Param        kapan_id   query     string  false  "Kapan id fragment"
// @Param        category   query     string  false  "4P Plus or 4P Minus"
// @Param        client_id  query     string  false  "Client ID"
// @Param        unbilled   query     bool    false  "Only lots not yet invoiced"
// @Success      200        {object}  response.Response
// @Router       /api/diamonds [get]
func (h *DiamondHandler) ListDiamonds(c *gin.Context) {
	p := pagination.Parse(c)

	filter := service.DiamondListFilter{
		KapanID:  c.Query("kapan_id"),
		Category: c.Query("category"),
		ClientID: c.Query("client_id"),
		Page:     p.Page,
		Limit:    p.Limit,
	}
	if raw := c.Query("unbilled"); raw != "" {
		unbilled, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "unbilled must be true or false")
			return
		}
		filter.UnbilledOnly = unbilled
	}

	diamonds, total, err := h.diamondService.ListDiamonds(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, diamonds, p.Page, p.Limit, total))
}

// CreateDiamond records a new lot
// @Summary      Create diamond lot
// @Description  total_value defaults to rate x carats for 4P Plus and rate x pieces for 4P Minus
// @Tags         diamonds
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                        false  "Who is making the change"
// @Param        payload  body    service.CreateDiamondRequest  true   "Diamond payload"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /api/diamonds [post]
func (h *DiamondHandler) CreateDiamond(c *gin.Context) {
	var req service.CreateDiamondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	diamond, err := h.diamondService.CreateDiamond(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, diamond))
}

// GetDiamond returns one lot
// @Summary      Get diamond lot
// @Tags         diamonds
// @Produce      json
// @Param        id  path  string  true  "Diamond ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/diamonds/{id} [get]
func (h *DiamondHandler) GetDiamond(c *gin.Context) {
	diamond, err := h.diamondService.GetDiamond(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, diamond))
}

// UpdateDiamond edits a lot that is not on an invoice
// @Summary      Update diamond lot
// @Tags         diamonds
// @Accept       json
// @Produce      json
// @Param        id       path  string                        true  "Diamond ID"
// @Param        payload  body  service.UpdateDiamondRequest  true  "Update payload"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response  "Lot already invoiced"
// @Router       /api/diamonds/{id} [put]
func (h *DiamondHandler) UpdateDiamond(c *gin.Context) {
	var req service.UpdateDiamondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	diamond, err := h.diamondService.UpdateDiamond(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, diamond))
}

// DeleteDiamond deletes a lot that is not on an invoice
// @Summary      Delete diamond lot
// @Tags         diamonds
// @Produce      json
// @Param        id  path  string  true  "Diamond ID"
// @Success      200  {object}  response.Response
// @Failure      409  {object}  response.Response  "Lot already invoiced"
// @Router       /api/diamonds/{id} [delete]
func (h *DiamondHandler) DeleteDiamond(c *gin.Context) {
	if err := h.diamondService.DeleteDiamond(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "Diamond deleted"}))
}
