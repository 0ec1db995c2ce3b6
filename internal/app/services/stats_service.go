package services

import (
	"context"
	"time"

	"github.com/yigit/internhub/internal/app/models"
	"github.com/yigit/internhub/internal/app/models/dto"
	"github.com/yigit/internhub/internal/app/repositories"
	"github.com/yigit/internhub/internal/domain/workflow"
)

// StatsService computes the dashboard counters
type StatsService struct {
	apps  repositories.ApplicationRepository
	tasks repositories.TaskRepository
	users repositories.UserRepository
	now   func() time.Time
}

// NewStatsService creates a new StatsService
func NewStatsService(apps repositories.ApplicationRepository, tasks repositories.TaskRepository, users repositories.UserRepository) *StatsService {
	return &StatsService{apps: apps, tasks: tasks, users: users, now: time.Now}
}

// Admin counts students per application status, supervisors and completed tasks
func (s *StatsService) Admin(ctx context.Context) (*dto.AdminStats, error) {
	counts, err := s.apps.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	stats := &dto.AdminStats{StudentsByStatus: make(map[string]int64)}
	for _, st := range []models.ApplicationStatus{
		models.ApplicationPending, models.ApplicationDocumentsPending, models.ApplicationReadyForAssignment,
		models.ApplicationApproved, models.ApplicationRejected,
	} {
		stats.StudentsByStatus[string(st)] = counts[st]
		stats.TotalStudents += counts[st]
	}

	supervisors, err := s.users.ListByRole(ctx, models.RoleSupervisor)
	if err != nil {
		return nil, err
	}
	stats.Supervisors = int64(len(supervisors))

	completed, err := s.tasks.List(ctx, repositories.TaskFilter{Status: models.TaskCompleted})
	if err != nil {
		return nil, err
	}
	stats.CompletedTasks = int64(len(completed))
	return stats, nil
}

// Supervisor counts the supervisor's students and tasks by effective status
func (s *StatsService) Supervisor(ctx context.Context, supervisorID int64) (*dto.SupervisorStats, error) {
	assigned, err := s.apps.CountBySupervisor(ctx, supervisorID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.List(ctx, repositories.TaskFilter{SupervisorID: supervisorID})
	if err != nil {
		return nil, err
	}

	stats := &dto.SupervisorStats{AssignedStudents: assigned, TotalTasks: int64(len(tasks))}
	now := s.now()
	for _, t := range tasks {
		switch workflow.EffectiveStatus(*t, now) {
		case models.TaskPending:
			stats.PendingTasks++
		case models.TaskInProgress:
			stats.InProgressTasks++
		case models.TaskCompleted:
			stats.CompletedTasks++
		case models.TaskOverdue:
			stats.OverdueTasks++
		}
	}
	return stats, nil
}

// Student counts the student's tasks; overdue tasks are not active
func (s *StatsService) Student(ctx context.Context, studentID int64) (*dto.StudentStats, error) {
	tasks, err := s.tasks.List(ctx, repositories.TaskFilter{StudentID: studentID})
	if err != nil {
		return nil, err
	}

	stats := &dto.StudentStats{TotalTasks: int64(len(tasks))}
	now := s.now()
	for _, t := range tasks {
		switch workflow.EffectiveStatus(*t, now) {
		case models.TaskPending, models.TaskInProgress:
			stats.ActiveTasks++
		case models.TaskCompleted:
			stats.CompletedTasks++
		case models.TaskOverdue:
			stats.OverdueTasks++
		}
	}
	return stats, nil
}
