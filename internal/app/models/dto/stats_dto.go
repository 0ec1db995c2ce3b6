package dto

// AdminStats feeds the admin dashboard
type AdminStats struct {
	TotalStudents    int64            `json:"totalStudents" example:"42"`
	StudentsByStatus map[string]int64 `json:"studentsByStatus"`
	Supervisors      int64            `json:"supervisors" example:"6"`
	CompletedTasks   int64            `json:"completedTasks" example:"18"`
}

// SupervisorStats feeds the supervisor dashboard
type SupervisorStats struct {
	AssignedStudents int64 `json:"assignedStudents" example:"4"`
	TotalTasks       int64 `json:"totalTasks" example:"12"`
	PendingTasks     int64 `json:"pendingTasks" example:"3"`
	InProgressTasks  int64 `json:"inProgressTasks" example:"5"`
	CompletedTasks   int64 `json:"completedTasks" example:"3"`
	OverdueTasks     int64 `json:"overdueTasks" example:"1"`
}

// StudentStats feeds the student dashboard
type StudentStats struct {
	ActiveTasks    int64 `json:"activeTasks" example:"2"`
	CompletedTasks int64 `json:"completedTasks" example:"5"`
	OverdueTasks   int64 `json:"overdueTasks" example:"1"`
	TotalTasks     int64 `json:"totalTasks" example:"8"`
}
