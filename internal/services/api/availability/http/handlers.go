// Package http provides the availability endpoints
package http

import (
	stdhttp "net/http"

	"scheduling/internal/modkit/httpkit"
	"scheduling/internal/services/api/availability/domain"
)

// Register mounts availability endpoints on r
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// one day
	httpkit.PostJSON[domain.SlotsInput](r, "/slots", h.slots)

	// calendar over the horizon
	httpkit.PostJSON[domain.DaysInput](r, "/days", h.days)

	// pre-flight for one start
	httpkit.PostJSON[domain.CheckInput](r, "/check", h.check)
}

type handlers struct{ svc domain.ServicePort }

// swagger:route POST /availability/slots Availability availabilitySlots
// @Summary Bookable slots for one day
// @Description Empty slots means no availability, not an error
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body domain.SlotsInput true "Query"
// @Success 200 {object} domain.DaySlots "ok"
// @Failure 404 {object} httpkit.Envelope "unknown meeting type"
// @Failure 422 {object} httpkit.Envelope "malformed date"
// @Failure 429 {object} httpkit.Envelope "rate limited"
// @Router /availability/slots [post]
func (h *handlers) slots(r *stdhttp.Request, in domain.SlotsInput) (any, error) {
	return h.svc.Slots(r.Context(), in)
}

// swagger:route POST /availability/days Availability availabilityDays
// @Summary Days with at least one slot, from today over the horizon
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body domain.DaysInput true "Query"
// @Success 200 {object} domain.Calendar "ok"
// @Failure 404 {object} httpkit.Envelope "unknown meeting type"
// @Failure 429 {object} httpkit.Envelope "rate limited"
// @Router /availability/days [post]
func (h *handlers) days(r *stdhttp.Request, in domain.DaysInput) (any, error) {
	return h.svc.Days(r.Context(), in)
}

// swagger:route POST /availability/check Availability availabilityCheck
// @Summary Confirm a start is still bookable
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body domain.CheckInput true "Query"
// @Success 200 {object} domain.CheckResult "ok"
// @Failure 409 {object} httpkit.Envelope "slot no longer available"
// @Failure 422 {object} httpkit.Envelope "not a bookable slot"
// @Failure 429 {object} httpkit.Envelope "rate limited"
// @Router /availability/check [post]
func (h *handlers) check(r *stdhttp.Request, in domain.CheckInput) (any, error) {
	return h.svc.Check(r.Context(), in)
}
