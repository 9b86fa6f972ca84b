package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"genassist/internal/models"
)

// Stats 当日工作流统计
type Stats struct {
	Completed     int `json:"completed"`
	InProgress    int `json:"inProgress"`
	VoiceCommands int `json:"voiceCommands"`
	TotalToday    int `json:"totalToday"`
}

// Stats 统计用户当日（UTC）创建的工作流
// voiceCommands 按描述中是否包含 "voice" 计数，与请求的 isVoice 无关
func (s *Service) Stats(ctx context.Context, userID string) (*Stats, error) {
	workflows, err := s.repo.ListWorkflowsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("查询用户工作流失败: %w", err)
	}

	dayStart := s.clock.Now().UTC().Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)

	stats := &Stats{}
	for _, wf := range workflows {
		created := wf.CreatedAt.UTC()
		if created.Before(dayStart) || !created.Before(dayEnd) {
			continue
		}
		stats.TotalToday++
		switch wf.Status {
		case models.StatusCompleted:
			stats.Completed++
		case models.StatusInProgress:
			stats.InProgress++
		}
		if strings.Contains(strings.ToLower(wf.Description), "voice") {
			stats.VoiceCommands++
		}
	}
	return stats, nil
}
