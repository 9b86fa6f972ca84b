package storage

import (
	"context"
	"fmt"
	"sort"

	"genassist/internal/models"

	"github.com/sasha-s/go-deadlock"
)

// MemoryStore 基于 map 的进程内存储，进程退出后数据丢失
type MemoryStore struct {
	mu        deadlock.RWMutex
	users     map[string]*models.User
	usernames map[string]string
	workflows map[string]*models.Workflow
	history   []*historyRow
	seq       int64
}

// historyRow 附带写入序号，时间戳相同时按写入顺序排序
type historyRow struct {
	seq   int64
	entry *models.WorkflowHistory
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[string]*models.User),
		usernames: make(map[string]string),
		workflows: make(map[string]*models.Workflow),
	}
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil || user.ID == "" {
		return fmt.Errorf("用户 ID 不能为空")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return fmt.Errorf("用户 %s: %w", user.ID, ErrDuplicate)
	}
	if _, ok := s.usernames[user.Username]; ok {
		return fmt.Errorf("用户名 %s: %w", user.Username, ErrDuplicate)
	}
	s.users[user.ID] = user.Clone()
	s.usernames[user.Username] = user.ID
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return nil, ErrNotFound
	}
	return s.users[id].Clone(), nil
}

func (s *MemoryStore) CreateWorkflow(ctx context.Context, wf *models.Workflow) error {
	if wf == nil || wf.ID == "" {
		return fmt.Errorf("工作流 ID 不能为空")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[wf.ID]; ok {
		return fmt.Errorf("工作流 %s: %w", wf.ID, ErrDuplicate)
	}
	s.workflows[wf.ID] = wf.Clone()
	return nil
}

func (s *MemoryStore) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wf, ok := s.workflows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return wf.Clone(), nil
}

func (s *MemoryStore) UpdateWorkflow(ctx context.Context, wf *models.Workflow) error {
	if wf == nil {
		return fmt.Errorf("工作流不能为空")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.workflows[wf.ID]; !ok {
		return ErrNotFound
	}
	s.workflows[wf.ID] = wf.Clone()
	return nil
}

func (s *MemoryStore) ListActiveWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	return s.listWorkflows(func(wf *models.Workflow) bool { return wf.Status.Active() }), nil
}

func (s *MemoryStore) ListWorkflowsByUser(ctx context.Context, userID string) ([]*models.Workflow, error) {
	return s.listWorkflows(func(wf *models.Workflow) bool { return wf.UserID == userID }), nil
}

func (s *MemoryStore) listWorkflows(keep func(*models.Workflow) bool) []*models.Workflow {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.Workflow, 0)
	for _, wf := range s.workflows {
		if keep(wf) {
			result = append(result, wf.Clone())
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

func (s *MemoryStore) AppendHistory(ctx context.Context, entry *models.WorkflowHistory) error {
	if entry == nil || entry.ID == "" {
		return fmt.Errorf("历史记录 ID 不能为空")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	cp := *entry
	s.history = append(s.history, &historyRow{seq: s.seq, entry: &cp})
	return nil
}

func (s *MemoryStore) ListHistory(ctx context.Context, workflowID string) ([]*models.WorkflowHistory, error) {
	return s.listHistory(func(h *models.WorkflowHistory) bool { return h.WorkflowID == workflowID }, 0), nil
}

func (s *MemoryStore) ListRecentActivity(ctx context.Context, limit int) ([]*models.WorkflowHistory, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	return s.listHistory(nil, limit), nil
}

func (s *MemoryStore) listHistory(keep func(*models.WorkflowHistory) bool, limit int) []*models.WorkflowHistory {
	s.mu.RLock()
	rows := make([]*historyRow, 0, len(s.history))
	for _, row := range s.history {
		if keep == nil || keep(row.entry) {
			rows = append(rows, row)
		}
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		ti, tj := rows[i].entry.Timestamp, rows[j].entry.Timestamp
		if ti.Equal(tj) {
			return rows[i].seq > rows[j].seq
		}
		return ti.After(tj)
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	result := make([]*models.WorkflowHistory, len(rows))
	for i, row := range rows {
		cp := *row.entry
		result[i] = &cp
	}
	return result
}

// Ping 内存存储总是可用
func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close 内存存储无需释放资源
func (s *MemoryStore) Close() error { return nil }
