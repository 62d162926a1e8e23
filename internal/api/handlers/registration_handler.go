package handlers

import (
	"net/http"
	"strconv"

	domain "padel-backend/internal/domain/registration"
	"padel-backend/internal/service"
	"padel-backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// RegistrationHandler handles registration-related HTTP requests
type RegistrationHandler struct {
	registrationService *service.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{
		registrationService: registrationService,
	}
}

// respondDomainError maps a service error onto the HTTP surface. Missing
// resources map to 404, uniqueness conflicts to 409, every other rule
// violation to 400. Anything that is not a domain error is a server fault.
func respondDomainError(c *gin.Context, err error) {
	de, ok := err.(*domain.Error)
	if !ok {
		c.JSON(http.StatusInternalServerError, APIResponse{
			Success: false,
			Message: "Internal server error",
			Errors:  err.Error(),
		})
		return
	}

	status := http.StatusBadRequest
	switch {
	case de.Code == domain.CodeNotFound:
		status = http.StatusNotFound
	case domain.IsConflict(de):
		status = http.StatusConflict
	}

	c.JSON(status, APIResponse{
		Success: false,
		Message: de.Message,
		Errors:  de,
	})
}

// List handles GET /api/v1/registrations
func (h *RegistrationHandler) List(c *gin.Context) {
	var filters domain.ListFilters

	for param, target := range map[string]*uint{
		"tournament_category_id": &filters.TournamentCategoryID,
		"tournament_id":          &filters.TournamentID,
		"person_id":              &filters.PersonID,
	} {
		raw := c.Query(param)
		if raw == "" {
			continue
		}
		value, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid " + param + " format",
			})
			return
		}
		*target = uint(value)
	}

	filters.PaymentStatus = c.Query("payment_status")

	if raw := c.Query("is_active"); raw != "" {
		isActive, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, APIResponse{
				Success: false,
				Message: "Invalid is_active format",
			})
			return
		}
		filters.IsActive = &isActive
	}

	registrations, err := h.registrationService.List(c.Request.Context(), filters)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Registrations retrieved successfully",
		Data:    map[string]interface{}{"registrations": registrations},
	})
}

// Get handles GET /api/v1/registrations/:id
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	registration, err := h.registrationService.Get(c.Request.Context(), id)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Registration retrieved successfully",
		Data:    registration,
	})
}

// Create handles POST /api/v1/registrations
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req domain.CreateRegistrationRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	if req.PaidAmount.IsNegative() {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  []validator.ValidationError{validator.NewFieldError("paid_amount", "paid_amount must not be negative")},
		})
		return
	}

	registration, err := h.registrationService.Create(c.Request.Context(), &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, APIResponse{
		Success: true,
		Message: "Registration created successfully",
		Data:    registration,
	})
}

// Update handles PATCH /api/v1/registrations/:id
func (h *RegistrationHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req domain.UpdateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid request format",
			Errors:  err.Error(),
		})
		return
	}

	if err := validator.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  validator.FormatValidationError(err),
		})
		return
	}

	if req.PaidAmount != nil && req.PaidAmount.IsNegative() {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Validation failed",
			Errors:  []validator.ValidationError{validator.NewFieldError("paid_amount", "paid_amount must not be negative")},
		})
		return
	}

	registration, err := h.registrationService.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Message: "Registration updated successfully",
		Data:    registration,
	})
}

// Delete handles DELETE /api/v1/registrations/:id
func (h *RegistrationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.registrationService.Delete(c.Request.Context(), id); err != nil {
		respondDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, APIResponse{
			Success: false,
			Message: "Invalid registration ID format",
		})
		return 0, false
	}
	return uint(id), true
}
