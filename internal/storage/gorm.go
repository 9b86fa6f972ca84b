package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"genassist/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// userRecord users 表
type userRecord struct {
	ID         string    `gorm:"primaryKey;size:64"`
	Username   string    `gorm:"size:128;not null;uniqueIndex"`
	Password   string    `gorm:"size:255;not null"`
	Name       string    `gorm:"size:255"`
	Email      string    `gorm:"size:255"`
	Department *string   `gorm:"size:128"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime:false"`
}

func (userRecord) TableName() string { return "users" }

// workflowRecord workflows 表，实体与步骤以 JSON 列存储
type workflowRecord struct {
	ID           string         `gorm:"primaryKey;size:64"`
	Title        string         `gorm:"size:255;not null"`
	Description  string         `gorm:"type:text"`
	Domain       string         `gorm:"size:32;index"`
	Intent       string         `gorm:"size:64;index"`
	Entities     datatypes.JSON `gorm:"not null"`
	Status       string         `gorm:"size:32;not null;index"`
	UserID       string         `gorm:"size:64;index"`
	Progress     int            `gorm:"not null;default:0"`
	Steps        datatypes.JSON `gorm:"not null"`
	Result       string         `gorm:"type:text"`
	OriginalText string         `gorm:"type:text"`
	IsVoice      bool           `gorm:"not null;default:false"`
	CreatedAt    time.Time      `gorm:"not null;index;autoCreateTime:false"`
	UpdatedAt    time.Time      `gorm:"not null;autoUpdateTime:false"`
}

func (workflowRecord) TableName() string { return "workflows" }

// historyRecord workflow_history 表
type historyRecord struct {
	ID         string    `gorm:"primaryKey;size:64"`
	WorkflowID string    `gorm:"size:64;not null;index"`
	Action     string    `gorm:"size:64;not null"`
	Status     string    `gorm:"size:32;not null"`
	Message    string    `gorm:"type:text"`
	Timestamp  time.Time `gorm:"column:occurred_at;not null;index"`
}

func (historyRecord) TableName() string { return "workflow_history" }

// GormStore 基于 GORM 的持久化存储，支持 postgres 与 sqlite
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore 创建 GORM 存储
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Models 返回需要迁移的表模型
func Models() []any {
	return []any{&userRecord{}, &workflowRecord{}, &historyRecord{}}
}

// Migrate 自动迁移表结构
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("迁移存储表失败: %w", err)
	}
	return nil
}

func (s *GormStore) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("用户 ID 不能为空")
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userRecord{}).
			Where("id = ? OR username = ?", user.ID, user.Username).
			Count(&count).Error; err != nil {
			return fmt.Errorf("检查用户失败: %w", err)
		}
		if count > 0 {
			return fmt.Errorf("用户 %s: %w", user.Username, ErrDuplicate)
		}
		rec := toUserRecord(user)
		if err := tx.Create(rec).Error; err != nil {
			return translateError("创建用户失败", err)
		}
		return nil
	})
}

func (s *GormStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translateError("查询用户失败", err)
	}
	return rec.toModel(), nil
}

func (s *GormStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&rec).Error; err != nil {
		return nil, translateError("查询用户失败", err)
	}
	return rec.toModel(), nil
}

func (s *GormStore) CreateWorkflow(ctx context.Context, wf *models.Workflow) error {
	if wf == nil || wf.ID == "" {
		return fmt.Errorf("工作流 ID 不能为空")
	}
	rec, err := toWorkflowRecord(wf)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translateError("创建工作流失败", err)
	}
	return nil
}

func (s *GormStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	var rec workflowRecord
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, translateError("查询工作流失败", err)
	}
	return rec.toModel()
}

func (s *GormStore) UpdateWorkflow(ctx context.Context, wf *models.Workflow) error {
	if wf == nil {
		return fmt.Errorf("工作流不能为空")
	}
	rec, err := toWorkflowRecord(wf)
	if err != nil {
		return err
	}
	res := s.db.WithContext(ctx).
		Model(&workflowRecord{}).
		Where("id = ?", wf.ID).
		Select("*").
		Updates(rec)
	if res.Error != nil {
		return translateError("更新工作流失败", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListActiveWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	return s.findWorkflows(ctx, "status IN ?", []string{string(models.StatusPending), string(models.StatusInProgress)})
}

func (s *GormStore) ListWorkflowsByUser(ctx context.Context, userID string) ([]*models.Workflow, error) {
	return s.findWorkflows(ctx, "user_id = ?", userID)
}

func (s *GormStore) findWorkflows(ctx context.Context, query string, args ...any) ([]*models.Workflow, error) {
	var recs []workflowRecord
	if err := s.db.WithContext(ctx).
		Where(query, args...).
		Order("created_at DESC, id DESC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("查询工作流列表失败: %w", err)
	}
	result := make([]*models.Workflow, 0, len(recs))
	for i := range recs {
		wf, err := recs[i].toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, wf)
	}
	return result, nil
}

func (s *GormStore) AppendHistory(ctx context.Context, entry *models.WorkflowHistory) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("历史记录 ID 不能为空")
	}
	rec := &historyRecord{
		ID:         entry.ID,
		WorkflowID: entry.WorkflowID,
		Action:     string(entry.Action),
		Status:     string(entry.Status),
		Message:    entry.Message,
		Timestamp:  entry.Timestamp.UTC(),
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return translateError("写入历史记录失败", err)
	}
	return nil
}

func (s *GormStore) ListHistory(ctx context.Context, workflowID string) ([]*models.WorkflowHistory, error) {
	var recs []historyRecord
	if err := s.db.WithContext(ctx).
		Where("workflow_id = ?", workflowID).
		Order("occurred_at DESC, id DESC").
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("查询历史记录失败: %w", err)
	}
	return historyModels(recs), nil
}

func (s *GormStore) ListRecentActivity(ctx context.Context, limit int) ([]*models.WorkflowHistory, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	var recs []historyRecord
	if err := s.db.WithContext(ctx).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("查询最近动态失败: %w", err)
	}
	return historyModels(recs), nil
}

// Ping 数据库连通性检查
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close 关闭底层连接
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translateError(msg string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", msg, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", msg, err)
	}
}

func toUserRecord(u *models.User) *userRecord {
	return &userRecord{
		ID:         u.ID,
		Username:   u.Username,
		Password:   u.Password,
		Name:       u.Name,
		Email:      u.Email,
		Department: u.Department,
		CreatedAt:  u.CreatedAt.UTC(),
	}
}

func (r *userRecord) toModel() *models.User {
	return &models.User{
		ID:         r.ID,
		Username:   r.Username,
		Password:   r.Password,
		Name:       r.Name,
		Email:      r.Email,
		Department: r.Department,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

func toWorkflowRecord(wf *models.Workflow) (*workflowRecord, error) {
	entities := wf.Entities
	if entities == nil {
		entities = models.Entities{}
	}
	entitiesJSON, err := entities.MarshalTyped()
	if err != nil {
		return nil, fmt.Errorf("序列化实体失败: %w", err)
	}
	steps := wf.Steps
	if steps == nil {
		steps = []models.Step{}
	}
	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return nil, fmt.Errorf("序列化步骤失败: %w", err)
	}
	return &workflowRecord{
		ID:           wf.ID,
		Title:        wf.Title,
		Description:  wf.Description,
		Domain:       string(wf.Domain),
		Intent:       string(wf.Intent),
		Entities:     datatypes.JSON(entitiesJSON),
		Status:       string(wf.Status),
		UserID:       wf.UserID,
		Progress:     wf.Progress,
		Steps:        datatypes.JSON(stepsJSON),
		Result:       wf.Result,
		OriginalText: wf.OriginalText,
		IsVoice:      wf.IsVoice,
		CreatedAt:    wf.CreatedAt.UTC(),
		UpdatedAt:    wf.UpdatedAt.UTC(),
	}, nil
}

func (r *workflowRecord) toModel() (*models.Workflow, error) {
	wf := &models.Workflow{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Domain:       models.Domain(r.Domain),
		Intent:       models.Intent(r.Intent),
		Status:       models.WorkflowStatus(r.Status),
		UserID:       r.UserID,
		Progress:     r.Progress,
		Result:       r.Result,
		OriginalText: r.OriginalText,
		IsVoice:      r.IsVoice,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
	if len(r.Entities) > 0 {
		entities, err := models.UnmarshalTypedEntities(r.Entities)
		if err != nil {
			return nil, fmt.Errorf("解析实体失败: %w", err)
		}
		wf.Entities = entities
	}
	if len(r.Steps) > 0 {
		if err := json.Unmarshal(r.Steps, &wf.Steps); err != nil {
			return nil, fmt.Errorf("解析步骤失败: %w", err)
		}
	}
	return wf, nil
}

func historyModels(recs []historyRecord) []*models.WorkflowHistory {
	result := make([]*models.WorkflowHistory, len(recs))
	for i, r := range recs {
		result[i] = &models.WorkflowHistory{
			ID:         r.ID,
			WorkflowID: r.WorkflowID,
			Action:     models.HistoryAction(r.Action),
			Status:     models.HistoryStatus(r.Status),
			Message:    r.Message,
			Timestamp:  r.Timestamp.UTC(),
		}
	}
	return result
}
