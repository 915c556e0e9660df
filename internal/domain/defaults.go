package domain

// DefaultTasks returns the shared daily-routine tasks shown to every visitor.
// A fresh slice is returned on each call.
func DefaultTasks() []Task {
	return []Task{
		{Title: "Wake up", Description: "Start the day", DueDate: "06:30 AM"},
		{Title: "Morning exercise", Description: "20 minutes of stretching or a short run", DueDate: "06:45 AM"},
		{Title: "Shower and get dressed", Description: "Get ready for the day", DueDate: "07:15 AM"},
		{Title: "Eat breakfast", Description: "Something healthy", DueDate: "07:45 AM"},
		{Title: "Review today's plan", Description: "Check calendar and priorities", DueDate: "08:15 AM"},
		{Title: "Deep work session", Description: "Focus on the most important task", DueDate: "09:00 AM"},
		{Title: "Lunch break", Description: "Step away from the screen", DueDate: "12:30 PM"},
		{Title: "Answer emails and messages", Description: "Clear the inbox", DueDate: "02:00 PM"},
		{Title: "Go for a walk", Description: "Fresh air and a short break", DueDate: "05:30 PM"},
		{Title: "Cook dinner", Description: "Prepare an evening meal", DueDate: "07:00 PM"},
		{Title: "Read before bed", Description: "30 minutes of reading", DueDate: "10:00 PM"},
	}
}
