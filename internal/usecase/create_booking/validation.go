package create_booking

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime must be in HH:MM format", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxCustomerNameLength {
		return fmt.Errorf("%w: customerName must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerNameLength)
	}

	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" {
		return fmt.Errorf("%w: customerEmail is required", ErrInvalidInput)
	}
	if len(email) > domain.MaxCustomerEmailLength {
		return fmt.Errorf("%w: customerEmail must not exceed %d characters", ErrInvalidInput, domain.MaxCustomerEmailLength)
	}
	if !strings.Contains(email, "@") {
		return fmt.Errorf("%w: customerEmail is not a valid email address", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	if req.PreferredResourceID != nil && *req.PreferredResourceID <= 0 {
		return fmt.Errorf("%w: preferredResourceId must be positive", ErrInvalidInput)
	}

	return nil
}
