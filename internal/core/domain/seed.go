package domain

import "time"

// DefaultBoardID is the board served when a client does not name one.
const DefaultBoardID = "main"

// Fixed identities used by the role switcher.
const (
	AdminUserID = "1"
	GuestUserID = "3"
)

// SeedUsers returns the built-in user directory: one admin, one guest and
// the employees that tasks can be assigned to.
func SeedUsers() []User {
	return []User{
		{ID: AdminUserID, Name: "Admin User", Role: RoleAdmin, Email: "admin@company.com"},
		{ID: "2", Name: "John Employee", Role: RoleEmployee, Email: "john@company.com"},
		{ID: GuestUserID, Name: "Guest User", Role: RoleGuest, Email: "guest@company.com"},
		{ID: "4", Name: "Sarah Developer", Role: RoleEmployee, Email: "sarah.developer@company.com"},
		{ID: "5", Name: "Mike DevOps", Role: RoleEmployee, Email: "mike.devops@company.com"},
		{ID: "6", Name: "Lisa Designer", Role: RoleEmployee, Email: "lisa.designer@company.com"},
		{ID: "7", Name: "Tom Analyst", Role: RoleEmployee, Email: "tom.analyst@company.com"},
	}
}

// SeedBoard builds a fresh copy of the demo board.
func SeedBoard(boardID string) *Board {
	tasks := []Task{
		{ID: "task-1", Title: "Design User Interface", Description: "Create wireframes and mockups for the new dashboard",
			AssignedTo: "2", AssignedToName: "John Employee", Status: StatusTodo, Priority: PriorityHigh,
			CreatedAt: day(2024, 1, 15), DueDate: dayPtr(2024, 1, 25)},
		{ID: "task-2", Title: "Implement Authentication", Description: "Set up JWT authentication system",
			AssignedTo: "2", AssignedToName: "John Employee", Status: StatusInProgress, Priority: PriorityHigh,
			CreatedAt: day(2024, 1, 10), DueDate: dayPtr(2024, 1, 20)},
		{ID: "task-3", Title: "Write Documentation", Description: "Document the API endpoints and usage",
			AssignedTo: "4", AssignedToName: "Sarah Developer", Status: StatusTodo, Priority: PriorityMedium,
			CreatedAt: day(2024, 1, 12), DueDate: dayPtr(2024, 1, 30)},
		{ID: "task-4", Title: "Setup CI/CD Pipeline", Description: "Configure automated testing and deployment",
			AssignedTo: "5", AssignedToName: "Mike DevOps", Status: StatusDone, Priority: PriorityMedium,
			CreatedAt: day(2024, 1, 5), DueDate: dayPtr(2024, 1, 15)},
		{ID: "task-5", Title: "Database Migration", Description: "Migrate legacy data to new schema",
			AssignedTo: "4", AssignedToName: "Sarah Developer", Status: StatusInProgress, Priority: PriorityHigh,
			CreatedAt: day(2024, 1, 8), DueDate: dayPtr(2024, 1, 18)},
		{ID: "task-6", Title: "Performance Optimization", Description: "Optimize application load times",
			AssignedTo: "5", AssignedToName: "Mike DevOps", Status: StatusTodo, Priority: PriorityLow,
			CreatedAt: day(2024, 1, 14), DueDate: dayPtr(2024, 2, 1)},
	}

	b := &Board{
		ID:    boardID,
		Tasks: make(map[string]Task, len(tasks)),
		Columns: map[string]Column{
			string(StatusTodo):       {ID: string(StatusTodo), Title: "To Do", TaskIDs: []string{"task-1", "task-3", "task-6"}},
			string(StatusInProgress): {ID: string(StatusInProgress), Title: "In Progress", TaskIDs: []string{"task-2", "task-5"}},
			string(StatusDone):       {ID: string(StatusDone), Title: "Done", TaskIDs: []string{"task-4"}},
		},
		ColumnOrder: []string{string(StatusTodo), string(StatusInProgress), string(StatusDone)},
	}
	for _, t := range tasks {
		b.Tasks[t.ID] = t
	}
	return b
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}
