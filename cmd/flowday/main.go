package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/cli/foods"
	"github.com/flowday/flowday/internal/cli/habits"
	"github.com/flowday/flowday/internal/cli/meals"
	"github.com/flowday/flowday/internal/cli/recipes"
	"github.com/flowday/flowday/internal/cli/settings"
	"github.com/flowday/flowday/internal/cli/system"
	"github.com/flowday/flowday/internal/cli/todos"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/errors"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/storage"
	"github.com/flowday/flowday/internal/storage/postgres"
	"github.com/flowday/flowday/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Cache   string `help:"Local cache database path or PostgreSQL connection string. Credentials must NOT be embedded in the connection string; use PGPASSWORD or .pgpass instead." env:"FLOWDAY_CACHE" default:"${default_cache}"`
	APIURL  string `help:"Base URL of the Flowday API. Overrides the stored setting." name:"api-url" env:"FLOWDAY_API_URL"`
	Debug   bool   `help:"Mirror log output to stderr at debug level."`
	NoCache bool   `help:"Always fetch from the API; do not read or write cached responses." name:"no-cache"`

	Init     system.InitCmd       `cmd:"" help:"Initialize flowday storage."`
	Doctor   system.DoctorCmd     `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Auth     system.AuthCmd       `cmd:"" help:"Manage the API access token."`
	CacheCmd system.CacheCmd      `cmd:"" name:"cache" help:"Manage cached API responses."`
	Food     foods.FoodCmd        `cmd:"" help:"Manage food items."`
	Recipe   recipes.RecipeCmd    `cmd:"" help:"Manage recipes."`
	Meal     meals.MealCmd        `cmd:"" help:"Manage meals."`
	Todo     todos.TodoCmd        `cmd:"" help:"Manage todos."`
	Habit    habits.HabitCmd      `cmd:"" help:"Create weekly meal habits."`
	Settings settings.SettingsCmd `cmd:"" help:"Manage application settings."`
	DebugCmd system.DebugCmd      `cmd:"" name:"debug" help:"Inspect local storage."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Meal planning companion: pantry, recipes, meals, todos and weekly habits"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":       constants.Version,
			"default_cache": constants.DefaultConfigPath,
		},
	)

	target := CLI.Cache
	var store storage.Provider
	if storage.IsPostgres(target) {
		if err := postgres.ValidateConnString(target); err != nil {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
			fmt.Fprintf(os.Stderr, "       Use a connection string without a password and supply it via PGPASSWORD or a .pgpass file.\n")
			os.Exit(1)
		}
		store = postgres.New(target)
	} else {
		target = expandHome(target)
		store = sqlite.NewStore(target)
	}
	defer store.Close()

	configDir := configDirFor(target)
	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	command := ""
	if ctx.Selected() != nil {
		command = strings.Fields(ctx.Command())[0]
	}

	// init and doctor load the store themselves
	if command != "init" && command != "doctor" {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appCtx := cli.NewContext(store)
	appCtx.Ctx = sigCtx
	if command != "init" {
		overrides := cli.Overrides{APIURL: CLI.APIURL, NoCache: CLI.NoCache, ConfigDir: configDir}
		if err := appCtx.Setup(overrides); err != nil {
			errors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		stop()
		store.Close()
		errors.Fatal(err)
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// configDirFor is where logs and the submit lock live: next to the SQLite
// file, or the user config dir for PostgreSQL.
func configDirFor(target string) string {
	if !storage.IsPostgres(target) {
		return filepath.Dir(target)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return os.TempDir()
	}
	return filepath.Join(dir, constants.AppName)
}
