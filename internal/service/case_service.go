package service

import (
	"context"

	"github.com/caselink/analytics-backend-go/internal/models"
	"github.com/caselink/analytics-backend-go/internal/repository"
)

// CaseService serves investigative case records.
type CaseService struct {
	repo *repository.CaseRepository
}

// NewCaseService wires the service.
func NewCaseService(repo *repository.CaseRepository) *CaseService {
	return &CaseService{repo: repo}
}

// List returns every case, most recent incident first.
func (s *CaseService) List(ctx context.Context) ([]models.Case, error) {
	return s.repo.All(ctx)
}

// Get returns one case by id.
func (s *CaseService) Get(ctx context.Context, id string) (models.Case, error) {
	return s.repo.ByID(ctx, id)
}
