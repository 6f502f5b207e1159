package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/resume-screener/internal/models"
)

var ErrRunNotFound = errors.New("analysis run not found")

type AnalysisRepository interface {
	Create(ctx context.Context, run *models.AnalysisRun) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error)
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

// Create stores the run and its candidates in one transaction.
func (r *analysisRepository) Create(ctx context.Context, run *models.AnalysisRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	for i := range run.Candidates {
		run.Candidates[i].AnalysisRunID = run.ID
		run.Candidates[i].Position = i + 1
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(run).Error
	})
	if err != nil {
		return fmt.Errorf("failed to create analysis run: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.AnalysisRun, error) {
	var run models.AnalysisRun
	err := r.db.WithContext(ctx).
		Preload("Candidates", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&run, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to find analysis run: %w", err)
	}
	return &run, nil
}
