package cli

import (
	"github.com/google/uuid"

	"github.com/mfeller/questlog/internal/catalog"
	profileCommands "github.com/mfeller/questlog/internal/profiles/application/commands"
	profileQueries "github.com/mfeller/questlog/internal/profiles/application/queries"
	trackingCommands "github.com/mfeller/questlog/internal/tracking/application/commands"
	trackingQueries "github.com/mfeller/questlog/internal/tracking/application/queries"
	"github.com/mfeller/questlog/pkg/observability"
)

// App holds the CLI application dependencies.
type App struct {
	// Catalog of built-in tasks
	Catalog *catalog.Catalog

	// Tracking handlers
	RecordCompletionHandler     *trackingCommands.RecordCompletionHandler
	GetDailyStatsHandler        *trackingQueries.GetDailyStatsHandler
	GetTrendHandler             *trackingQueries.GetTrendHandler
	GetCategoryBreakdownHandler *trackingQueries.GetCategoryBreakdownHandler
	GetSummaryHandler           *trackingQueries.GetSummaryHandler

	// Profile handlers
	CreateProfileHandler *profileCommands.CreateProfileHandler
	ManageTasksHandler   *profileCommands.ManageTasksHandler
	GetProfileHandler    *profileQueries.GetProfileHandler
	ListProfilesHandler  *profileQueries.ListProfilesHandler

	// Metrics for command instrumentation
	Metrics observability.Metrics

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

var globalApp *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	globalApp = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return globalApp
}
