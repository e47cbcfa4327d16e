package ginserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/app/commands"
	"staybook/internal/app/dto"
	hostpricingapp "staybook/internal/app/handlers/hostpricing"
	"staybook/internal/app/queries"
	domainlistings "staybook/internal/domain/listings"
	domainpricing "staybook/internal/domain/pricing"
	domainrange "staybook/internal/domain/shared/daterange"
)

type HostPricingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

func (h HostPricingHandler) Calendar(c *gin.Context) {
	if _, ok := requireRole(c, "host"); !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}
	year := parseInt(c.Query("year"))
	month := parseInt(c.Query("month"))
	if year == 0 {
		now := time.Now().UTC()
		year, month = now.Year(), int(now.Month())
	}
	query := hostpricingapp.MonthCalendarQuery{
		ListingID: c.Param("id"),
		Year:      year,
		Month:     month,
	}
	result, err := queries.Ask[hostpricingapp.MonthCalendarQuery, dto.MonthCalendar](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type updatePricingRequest struct {
	BasePrice          int64   `json:"base_price"`
	Currency           string  `json:"currency"`
	WeekendMultiplier  float64 `json:"weekend_multiplier"`
	DefaultMinimumStay int     `json:"default_minimum_stay"`
	CleaningFee        int64   `json:"cleaning_fee"`
	ServiceFee         int64   `json:"service_fee"`
}

func (h HostPricingHandler) UpdatePricing(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req updatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := hostpricingapp.UpdatePricingCommand{
		HostID:             host.ID,
		ListingID:          c.Param("id"),
		BasePrice:          req.BasePrice,
		Currency:           req.Currency,
		WeekendMultiplier:  req.WeekendMultiplier,
		DefaultMinimumStay: req.DefaultMinimumStay,
		CleaningFee:        req.CleaningFee,
		ServiceFee:         req.ServiceFee,
	}
	result, err := commands.Dispatch[hostpricingapp.UpdatePricingCommand, *hostpricingapp.UpdatePricingResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type applyOverridesRequest struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Price       *int64 `json:"price"`
	Currency    string `json:"currency"`
	MinimumStay *int   `json:"minimum_stay"`
	Available   *bool  `json:"available"`
}

func (h HostPricingHandler) ApplyOverrides(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req applyOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	available := true
	if req.Available != nil {
		available = *req.Available
	}
	cmd := hostpricingapp.ApplyOverridesCommand{
		HostID:      host.ID,
		ListingID:   c.Param("id"),
		StartDate:   start,
		EndDate:     end,
		Price:       req.Price,
		Currency:    req.Currency,
		MinimumStay: req.MinimumStay,
		Available:   available,
	}
	result, err := commands.Dispatch[hostpricingapp.ApplyOverridesCommand, *hostpricingapp.ApplyOverridesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type clearOverridesRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (h HostPricingHandler) ClearOverrides(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req clearOverridesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := hostpricingapp.ClearOverridesCommand{
		HostID:    host.ID,
		ListingID: c.Param("id"),
		StartDate: start,
		EndDate:   end,
	}
	result, err := commands.Dispatch[hostpricingapp.ClearOverridesCommand, *hostpricingapp.ClearOverridesResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createSeasonRequest struct {
	Name       string  `json:"name"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date"`
	Multiplier float64 `json:"multiplier"`
}

func (h HostPricingHandler) CreateSeason(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	var req createSeasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		h.respondWithError(c, http.StatusBadRequest, err)
		return
	}
	cmd := hostpricingapp.CreateSeasonCommand{
		HostID:     host.ID,
		ListingID:  c.Param("id"),
		Name:       req.Name,
		StartDate:  start,
		EndDate:    end,
		Multiplier: req.Multiplier,
	}
	result, err := commands.Dispatch[hostpricingapp.CreateSeasonCommand, *hostpricingapp.CreateSeasonResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HostPricingHandler) DeleteSeason(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Commands == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("commands bus unavailable"))
		return
	}
	cmd := hostpricingapp.DeleteSeasonCommand{
		HostID:    host.ID,
		ListingID: c.Param("id"),
		SeasonID:  c.Param("seasonID"),
	}
	result, err := commands.Dispatch[hostpricingapp.DeleteSeasonCommand, *hostpricingapp.DeleteSeasonResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostPricingHandler) PriceSuggestion(c *gin.Context) {
	host, ok := requireRole(c, "host")
	if !ok {
		return
	}
	if h.Queries == nil {
		h.respondWithError(c, http.StatusServiceUnavailable, errors.New("queries bus unavailable"))
		return
	}
	query := hostpricingapp.PriceSuggestionQuery{
		HostID:    host.ID,
		ListingID: c.Param("id"),
	}
	result, err := queries.Ask[hostpricingapp.PriceSuggestionQuery, dto.PriceSuggestion](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h HostPricingHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainlistings.ErrListingNotFound),
		errors.Is(err, hostpricingapp.ErrListingNotOwned),
		errors.Is(err, domainpricing.ErrSeasonNotFound):
		h.respondWithError(c, http.StatusNotFound, err)
	case isValidationError(err):
		h.respondWithError(c, http.StatusBadRequest, err)
	default:
		h.respondWithError(c, http.StatusInternalServerError, err)
	}
}

func (h HostPricingHandler) respondWithError(c *gin.Context, status int, err error) {
	if h.Logger != nil {
		fields := []any{"status", status, "error", err, "path", c.FullPath()}
		if host, ok := currentPrincipal(c); ok {
			fields = append(fields, "host_id", host.ID)
		}
		h.Logger.Error("host pricing request failed", fields...)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, domainlistings.ErrBasePriceRequired),
		errors.Is(err, domainlistings.ErrWeekendMultiplier),
		errors.Is(err, domainlistings.ErrMinimumStayRequired),
		errors.Is(err, domainlistings.ErrNegativeFee),
		errors.Is(err, domainpricing.ErrOverridePrice),
		errors.Is(err, domainpricing.ErrOverrideMinStay),
		errors.Is(err, domainpricing.ErrSeasonNameRequired),
		errors.Is(err, domainpricing.ErrSeasonMultiplier),
		errors.Is(err, domainpricing.ErrSeasonRange),
		errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, hostpricingapp.ErrInvalidMonth):
		return true
	}
	return false
}

func parseInt(raw string) int {
	value, _ := strconv.Atoi(strings.TrimSpace(raw))
	if value < 0 {
		return 0
	}
	return value
}

var _ HostPricingHTTP = HostPricingHandler{}
