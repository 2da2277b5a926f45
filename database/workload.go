package database

import (
	"context"
	"errors"
	"fmt"

	"projectdb/models"
	"projectdb/workload"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicateWorkload = errors.New("a record already exists for this user, project and date")
	ErrUnknownReference  = errors.New("unknown user or project")
)

// Filter selects records in the inclusive date-key range [From, To]. Zero
// UserID or ProjectID means any.
type Filter struct {
	From      string
	To        string
	UserID    uint
	ProjectID uint
}

type WorkloadRepository struct {
	db *gorm.DB
}

func NewWorkloadRepository(db *gorm.DB) *WorkloadRepository {
	return &WorkloadRepository{db: db}
}

func (r *WorkloadRepository) scoped(ctx context.Context, f Filter) *gorm.DB {
	q := r.db.WithContext(ctx)
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.ProjectID != 0 {
		q = q.Where("project_id = ?", f.ProjectID)
	}
	return q
}

// FetchRange loads the plan and actual snapshot the engine reconciles.
func (r *WorkloadRepository) FetchRange(ctx context.Context, f Filter) ([]workload.Plan, []workload.Actual, error) {
	var planRows []models.WorkloadPlan
	if err := r.scoped(ctx, f).Order("date, id").Find(&planRows).Error; err != nil {
		return nil, nil, fmt.Errorf("loading plans: %w", err)
	}
	var actualRows []models.WorkloadActual
	if err := r.scoped(ctx, f).Order("date, id").Find(&actualRows).Error; err != nil {
		return nil, nil, fmt.Errorf("loading actuals: %w", err)
	}

	plans := make([]workload.Plan, len(planRows))
	for i := range planRows {
		plans[i] = planRows[i].Engine()
	}
	actuals := make([]workload.Actual, len(actualRows))
	for i := range actualRows {
		actuals[i] = actualRows[i].Engine()
	}
	return plans, actuals, nil
}

func (r *WorkloadRepository) GetPlan(ctx context.Context, id uint) (*models.WorkloadPlan, error) {
	var plan models.WorkloadPlan
	if err := r.db.WithContext(ctx).First(&plan, id).Error; err != nil {
		return nil, translate(err)
	}
	return &plan, nil
}

func (r *WorkloadRepository) CreatePlan(ctx context.Context, plan *models.WorkloadPlan) error {
	if err := r.checkReferences(ctx, plan.UserID, plan.ProjectID); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(plan).Error)
}

func (r *WorkloadRepository) UpdatePlan(ctx context.Context, plan *models.WorkloadPlan) error {
	if err := r.checkReferences(ctx, plan.UserID, plan.ProjectID); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(plan).Error)
}

func (r *WorkloadRepository) DeletePlan(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.WorkloadPlan{}, id)
}

func (r *WorkloadRepository) GetActual(ctx context.Context, id uint) (*models.WorkloadActual, error) {
	var actual models.WorkloadActual
	if err := r.db.WithContext(ctx).First(&actual, id).Error; err != nil {
		return nil, translate(err)
	}
	return &actual, nil
}

func (r *WorkloadRepository) CreateActual(ctx context.Context, actual *models.WorkloadActual) error {
	if err := r.checkReferences(ctx, actual.UserID, actual.ProjectID); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(actual).Error)
}

func (r *WorkloadRepository) UpdateActual(ctx context.Context, actual *models.WorkloadActual) error {
	if err := r.checkReferences(ctx, actual.UserID, actual.ProjectID); err != nil {
		return err
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(actual).Error)
}

// checkReferences makes sure a record points at a live user and project.
// SQLite does not enforce the foreign keys unless asked to.
func (r *WorkloadRepository) checkReferences(ctx context.Context, userID, projectID uint) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return fmt.Errorf("checking user: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: user %d", ErrUnknownReference, userID)
	}
	if err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", projectID).Count(&count).Error; err != nil {
		return fmt.Errorf("checking project: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("%w: project %d", ErrUnknownReference, projectID)
	}
	return nil
}

func (r *WorkloadRepository) DeleteActual(ctx context.Context, id uint) error {
	return deleteByID(r.db.WithContext(ctx), &models.WorkloadActual{}, id)
}

// UserNames maps user ids to display names for sorting and exports.
func (r *WorkloadRepository) UserNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var users []models.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	for i := range users {
		names[users[i].ID] = users[i].DisplayName()
	}
	return names, nil
}

func (r *WorkloadRepository) ProjectNames(ctx context.Context, ids []uint) (map[uint]string, error) {
	names := make(map[uint]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}
	var projects []models.Project
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	return names, nil
}

// Names resolves display names for every user and project referenced by
// unified.
func (r *WorkloadRepository) Names(ctx context.Context, unified []workload.Unified) (map[uint]string, map[uint]string, error) {
	seenUsers := map[uint]bool{}
	seenProjects := map[uint]bool{}
	var userIDs, projectIDs []uint
	for _, u := range unified {
		if !seenUsers[u.UserID] {
			seenUsers[u.UserID] = true
			userIDs = append(userIDs, u.UserID)
		}
		if !seenProjects[u.ProjectID] {
			seenProjects[u.ProjectID] = true
			projectIDs = append(projectIDs, u.ProjectID)
		}
	}
	users, err := r.UserNames(ctx, userIDs)
	if err != nil {
		return nil, nil, err
	}
	projects, err := r.ProjectNames(ctx, projectIDs)
	if err != nil {
		return nil, nil, err
	}
	return users, projects, nil
}

func deleteByID(db *gorm.DB, model interface{}, id uint) error {
	result := db.Delete(model, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %v", ErrDuplicateWorkload, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %v", ErrUnknownReference, err)
	}
	return err
}
