package handler

import (
	"net/http"

	"diamondtrade/internal/service"
	"diamondtrade/pkg/response"

	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	companyService service.CompanyService
}

func NewCompanyHandler(companyService service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companyService: companyService}
}

func (h *CompanyHandler) RegisterRoutes(router *gin.RouterGroup) {
	company := router.Group("/api/company")
	{
		company.GET("", h.GetCompany)
		company.PUT("", h.UpdateCompany)
	}
}

// GetCompany returns the seller details printed on invoices
// @Summary      Get company details
// @Tags         company
// @Produce      json
// @Success      200  {object}  response.Response{data=model.CompanyDetails}
// @Router       /api/company [get]
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	company, err := h.companyService.GetCompany(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}

// UpdateCompany replaces the seller details
// @Summary      Update company details
// @Tags         company
// @Accept       json
// @Produce      json
// @Param        payload  body  service.UpdateCompanyRequest  true  "Company payload"
// @Success      200  {object}  response.Response{data=model.CompanyDetails}
// @Failure      400  {object}  response.Response
// @Router       /api/company [put]
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	var req service.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	company, err := h.companyService.UpdateCompany(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, company))
}
