package services

import (
	"math"
	"time"

	"github.com/joshua-takyi/snapvent/internal/models"
)

const (
	BaseDailyRate = 20
	VideoPrice    = 49
	dayLength     = 24 * time.Hour
)

type PriceBreakdown struct {
	BasePackage    models.BasePackage    `json:"base_package"`
	GuestPackage   models.GuestPackage   `json:"guest_package"`
	VideoPackage   models.VideoPackage   `json:"video_package"`
	CapturePackage models.CapturePackage `json:"capture_package"`
	TotalPrice     float64               `json:"total_price"`
}

// CalculateTotalDays counts started days between start and end, never less than one.
func CalculateTotalDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(float64(diff) / float64(dayLength)))
	if days < 1 {
		return 1
	}
	return days
}

// CapturePricePerGuest looks the per guest price up by plan name. Unknown plans are free.
func CapturePricePerGuest(planName string) float64 {
	return models.CapturePlanPrices[planName]
}

// CalculatePrice itemizes the price of an event. It has no side effects.
func CalculatePrice(start, end time.Time, tier string, plan *models.CaptureLimit) (*PriceBreakdown, error) {
	if plan == nil {
		return nil, models.ErrPlanNotFound
	}
	guestTier, ok := models.LookupGuestTier(tier)
	if !ok {
		return nil, models.ErrInvalidTier
	}

	days := CalculateTotalDays(start, end)
	base := models.BasePackage{
		DailyRate:      BaseDailyRate,
		TotalDays:      days,
		TotalBasePrice: BaseDailyRate * float64(days),
	}

	guest := models.GuestPackage{
		Tier:            guestTier.Tier,
		MaxGuests:       guestTier.MaxGuests,
		AdditionalPrice: guestTier.Price,
	}

	video := models.VideoPackage{Enabled: plan.Type.IncludesVideo()}
	if video.Enabled {
		video.Price = VideoPrice
	}

	perGuest := CapturePricePerGuest(plan.Name)
	capture := models.CapturePackage{
		PlanID:            plan.ID,
		PlanName:          plan.Name,
		PlanType:          plan.Type,
		PricePerGuest:     perGuest,
		MaxGuests:         guest.MaxGuests,
		TotalCapturePrice: perGuest * float64(guest.MaxGuests),
	}

	return &PriceBreakdown{
		BasePackage:    base,
		GuestPackage:   guest,
		VideoPackage:   video,
		CapturePackage: capture,
		TotalPrice:     base.TotalBasePrice + guest.AdditionalPrice + video.Price + capture.TotalCapturePrice,
	}, nil
}

// ApplyTo copies the breakdown onto the event.
func (p *PriceBreakdown) ApplyTo(e *models.Event) {
	e.BasePackage = p.BasePackage
	e.GuestPackage = p.GuestPackage
	e.VideoPackage = p.VideoPackage
	e.CapturePackage = p.CapturePackage
	e.Price = p.TotalPrice
}
