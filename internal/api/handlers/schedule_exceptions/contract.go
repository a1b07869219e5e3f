package schedule_exceptions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-AppointmentService/internal/service/schedule/models"
)

type ScheduleService interface {
	GetExceptions(ctx context.Context, staffID int64, from, to time.Time) (*models.ExceptionListResponse, error)
	UpsertException(ctx context.Context, staffID int64, req *models.UpsertExceptionRequest, loc *time.Location) (*models.ExceptionResponse, error)
	DeleteException(ctx context.Context, staffID int64, dateStr string, loc *time.Location) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
