package get_resource_availability

import (
	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	getResourceAvailability "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_resource_availability"
)

// ResourceLoadResponse занятость одного ресурса
type ResourceLoadResponse struct {
	ResourceID int64  `json:"resourceId"`
	Name       string `json:"name"`
	Capacity   int    `json:"capacity"`
	Used       int    `json:"used"`
	Free       int    `json:"free"`
	InWindow   bool   `json:"inWindow"`
}

// ResourceAvailabilityResponse HTTP response model
type ResourceAvailabilityResponse struct {
	ServiceID int64                  `json:"serviceId"`
	Date      string                 `json:"date"`
	StartTime string                 `json:"startTime"`
	EndTime   string                 `json:"endTime"`
	Resources []ResourceLoadResponse `json:"resources"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getResourceAvailability.Response) *ResourceAvailabilityResponse {
	resources := make([]ResourceLoadResponse, 0, len(resp.Resources))
	for _, load := range resp.Resources {
		resources = append(resources, ResourceLoadResponse{
			ResourceID: load.ResourceID,
			Name:       load.Name,
			Capacity:   load.Capacity,
			Used:       load.Used,
			Free:       load.Free,
			InWindow:   load.InWindow,
		})
	}

	return &ResourceAvailabilityResponse{
		ServiceID: resp.ServiceID,
		Date:      resp.Date.Format(domain.DateFormat),
		StartTime: resp.StartTime.String(),
		EndTime:   resp.EndTime.String(),
		Resources: resources,
	}
}
