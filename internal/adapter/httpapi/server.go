package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/finlens/finlens-backend/internal/domain"
	applog "github.com/finlens/finlens-backend/internal/log"
	"github.com/finlens/finlens-backend/internal/usecase/aggregator"
	"github.com/finlens/finlens-backend/internal/usecase/forecast"
	"github.com/finlens/finlens-backend/internal/usecase/mapper"
)

const dateLayout = "2006-01-02"

// Server exposes the core operations over REST.
type Server struct {
	Mapper     *mapper.Service
	Aggregator *aggregator.Service
	Forecast   *forecast.Service

	logger *applog.Logger
}

// NewServer creates a new HTTP server instance.
func NewServer(
	mapperService *mapper.Service,
	aggregatorService *aggregator.Service,
	forecastService *forecast.Service,
	logger *applog.Logger,
) *Server {
	return &Server{
		Mapper:     mapperService,
		Aggregator: aggregatorService,
		Forecast:   forecastService,
		logger:     logger,
	}
}

// Router builds the gin engine with all routes registered. The health
// endpoint is unauthenticated; everything under /api/v1 requires a valid
// bearer token.
func (s *Server) Router(jwtSecret []byte) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(JWTAuthMiddleware(jwtSecret))

	api.POST("/accounts/:id/resolve", s.resolveAccountCategory)
	api.PUT("/accounts/:id/mapping", s.setAccountMapping)
	api.POST("/companies/:id/accounts/map", s.mapCompanyAccounts)
	api.GET("/companies/:id/accounts/unmapped", s.unmappedAccounts)
	api.POST("/companies/:id/statements/profit-and-loss", s.generateProfitAndLoss)
	api.POST("/companies/:id/statements/cash-flow", s.generateCashFlow)
	api.POST("/companies/:id/projections", s.generateProjection)

	return r
}

func (s *Server) resolveAccountCategory(c *gin.Context) {
	accountID, ok := parseIDParam(c)
	if !ok {
		return
	}

	categoryID, err := s.Mapper.ResolveAccountCategory(c.Request.Context(), accountID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category_id": categoryID})
}

type setMappingRequest struct {
	CategoryID string `json:"category_id" binding:"required"`
}

func (s *Server) setAccountMapping(c *gin.Context) {
	accountID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req setMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category_id"})
		return
	}

	if err := s.Mapper.SetAccountMapping(c.Request.Context(), accountID, categoryID); err != nil {
		s.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type mappingResultResponse struct {
	AccountID    uuid.UUID `json:"account_id"`
	AccountName  string    `json:"account_name"`
	CategoryID   uuid.UUID `json:"category_id"`
	CategoryName string    `json:"category_name"`
	Method       string    `json:"mapping_method"`
	Status       string    `json:"status"`
}

func (s *Server) mapCompanyAccounts(c *gin.Context) {
	companyID, ok := parseIDParam(c)
	if !ok {
		return
	}

	results, err := s.Mapper.MapCompanyAccounts(c.Request.Context(), companyID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	response := make([]mappingResultResponse, 0, len(results))
	for _, result := range results {
		response = append(response, mappingResultResponse{
			AccountID:    result.AccountID,
			AccountName:  result.AccountName,
			CategoryID:   result.CategoryID,
			CategoryName: result.CategoryName,
			Method:       string(result.Method),
			Status:       string(result.Status),
		})
	}

	c.JSON(http.StatusOK, gin.H{"results": response})
}

type accountResponse struct {
	ID             uuid.UUID `json:"id"`
	ExternalID     string    `json:"external_id"`
	Name           string    `json:"name"`
	AccountType    string    `json:"account_type"`
	AccountSubtype string    `json:"account_subtype"`
}

func (s *Server) unmappedAccounts(c *gin.Context) {
	companyID, ok := parseIDParam(c)
	if !ok {
		return
	}

	accounts, err := s.Mapper.UnmappedAccounts(c.Request.Context(), companyID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	response := make([]accountResponse, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, accountResponse{
			ID:             account.ID,
			ExternalID:     account.ExternalID,
			Name:           account.Name,
			AccountType:    account.AccountType,
			AccountSubtype: account.AccountSubtype,
		})
	}

	c.JSON(http.StatusOK, gin.H{"accounts": response})
}

type generateStatementRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	RunID       string `json:"run_id" binding:"required"`
}

func (s *Server) generateProfitAndLoss(c *gin.Context) {
	s.generateStatement(c, s.Aggregator.GenerateProfitAndLoss)
}

func (s *Server) generateCashFlow(c *gin.Context) {
	s.generateStatement(c, s.Aggregator.GenerateCashFlow)
}

func (s *Server) generateStatement(
	c *gin.Context,
	generate func(ctx context.Context, companyID uuid.UUID, periodStart, periodEnd time.Time, runID string) (uuid.UUID, error),
) {
	companyID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req generateStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	periodStart, err := time.Parse(dateLayout, req.PeriodStart)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_start, expected YYYY-MM-DD"})
		return
	}
	periodEnd, err := time.Parse(dateLayout, req.PeriodEnd)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period_end, expected YYYY-MM-DD"})
		return
	}

	aggregateID, err := generate(c.Request.Context(), companyID, periodStart, periodEnd, req.RunID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"aggregate_id": aggregateID})
}

func (s *Server) generateProjection(c *gin.Context) {
	companyID, ok := parseIDParam(c)
	if !ok {
		return
	}

	rows, err := s.Forecast.Generate(c.Request.Context(), companyID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows_written": rows})
}

// parseIDParam parses the :id path parameter, writing a 400 on failure.
func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return uuid.Nil, false
	}
	return id, true
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		s.logger.Error("internal error", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
