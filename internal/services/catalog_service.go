package services

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/snapvent/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CatalogService struct {
	catalogRepo models.CatalogRepo
}

func NewCatalogService(catalogRepo models.CatalogRepo) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
	}
}

type PricePreviewRequest struct {
	StartDate     time.Time `json:"start_date" validate:"required"`
	EndDate       time.Time `json:"end_date" validate:"required"`
	GuestTier     string    `json:"guest_tier" validate:"required"`
	CapturePlanID string    `json:"capture_plan_id" validate:"required,len=24,hexadecimal"`
}

func (cs *CatalogService) SeedDefaults(ctx context.Context) error {
	return cs.catalogRepo.EnsureCapturePlans(ctx, models.DefaultCapturePlans)
}

func (cs *CatalogService) ListCapturePlans(ctx context.Context) ([]*models.CaptureLimit, error) {
	return cs.catalogRepo.ListCapturePlans(ctx)
}

func (cs *CatalogService) ListGuestTiers() []models.GuestPackageTier {
	return models.GuestTiers
}

// GetCapturePlan resolves a plan reference given as a hex id.
func (cs *CatalogService) GetCapturePlan(ctx context.Context, planID string) (*models.CaptureLimit, error) {
	id, err := primitive.ObjectIDFromHex(planID)
	if err != nil {
		return nil, models.ErrCapturePlanNotFound
	}
	plan, err := cs.catalogRepo.GetCapturePlanByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get capture plan: %w", err)
	}
	return plan, nil
}

func (cs *CatalogService) PreviewPrice(ctx context.Context, req *PricePreviewRequest) (*PriceBreakdown, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}
	plan, err := cs.GetCapturePlan(ctx, req.CapturePlanID)
	if err != nil {
		return nil, err
	}
	return CalculatePrice(req.StartDate, req.EndDate, req.GuestTier, plan)
}
