package constants

import "time"

// SessionState represents the current state of the TUI application
type SessionState int

// Domain identifies the kind of entity a habit is attached to
type Domain string

// RecurrenceType represents the recurrence of a habit
type RecurrenceType string

const (
	AppName            = "flowday"
	DefaultKeyringUser = "access-token"
	DefaultConfigPath  = "~/.config/flowday/flowday.db"
	DefaultAPIBaseURL  = "http://localhost:3000"
	TokenEnvVar        = "FLOWDAY_TOKEN"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// DefaultMainEventTime is used whenever a main event has no usable time
	DefaultMainEventTime = "18:00"
	// DefaultPrepOffsetMin is how far before the main event prep steps default to
	DefaultPrepOffsetMin = 30

	DomainMeal       Domain         = "meal"
	RecurrenceWeekly RecurrenceType = "weekly"

	// API paths
	PathHealth     = "/api/health"
	PathFoodItems  = "/api/food-items"
	PathRecipes    = "/api/recipes"
	PathMeals      = "/api/meals"
	PathTodos      = "/api/todos"
	PathHabitBatch = "/api/habit/batch"

	// API client constants
	HTTPTimeout        = 30 * time.Second
	DefaultRateLimit   = 10 // requests per second
	DefaultRateBurst   = 5
	IdempotencyHeader  = "Idempotency-Key"
	SubmitLockfileName = "flowday-submit.lock"

	// Cache tags, one per remote resource
	TagFoodItems = "food-items"
	TagRecipes   = "recipes"
	TagMeals     = "meals"
	TagTodos     = "todos"
)

// Session states. The first four are the tabs, in display order.
const (
	StateFoods SessionState = iota
	StateRecipes
	StateMeals
	StateTodos
	StateMealDetail
	StateAddFood
	StateAddTodo
	StateHabitMain
	StateHabitSteps
	StateHabitSubmitting
	StateConfirmDelete
)

// TabCount is the number of top-level TUI tabs.
const TabCount = 4
