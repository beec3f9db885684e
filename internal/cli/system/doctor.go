package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/keyring"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/storage"
	"github.com/flowday/flowday/internal/validation"
)

// doctorTimeout bounds each network check.
const doctorTimeout = 10 * time.Second

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	fail := func(name string, err error) {
		ctx.Printf("❌ %s: FAIL\n", name)
		ctx.Printf("   Error: %v\n", err)
		hasError = true
	}

	dbReachable := false
	if err := checkDBReachable(ctx); err != nil {
		fail("Database reachable", err)
	} else {
		ctx.Printf("✓ Database reachable: OK\n")
		dbReachable = true
	}

	if dbReachable {
		if err := checkSchemaVersion(ctx); err != nil {
			fail("Schema version", err)
		} else {
			ctx.Printf("✓ Schema version: OK\n")
		}

		if err := checkSettings(ctx); err != nil {
			fail("Settings", err)
		} else {
			ctx.Printf("✓ Settings: OK\n")
		}
	} else {
		ctx.Printf("⊘ Schema version: SKIPPED (database not reachable)\n")
		ctx.Printf("⊘ Settings: SKIPPED (database not reachable)\n")
	}

	if err := checkClockTimezone(ctx); err != nil {
		fail("Clock/timezone", err)
	} else {
		ctx.Printf("✓ Clock/timezone: OK\n")
	}

	apiReachable := false
	if err := checkAPIReachable(ctx); err != nil {
		fail("API reachable", err)
	} else {
		ctx.Printf("✓ API reachable: OK (%s)\n", ctx.Client.BaseURL())
		apiReachable = true
	}

	// A missing token is a warning: read-only diagnostics still make sense.
	hasToken := false
	if err := checkToken(ctx); err != nil {
		ctx.Printf("⚠ Access token: WARNING\n")
		ctx.Printf("   %v\n", err)
	} else {
		ctx.Printf("✓ Access token: OK\n")
		hasToken = true
	}

	if apiReachable && hasToken {
		if err := checkResources(ctx); err != nil {
			fail("Authenticated requests", err)
		} else {
			ctx.Printf("✓ Authenticated requests: OK\n")
		}
	} else {
		ctx.Printf("⊘ Authenticated requests: SKIPPED (API or token unavailable)\n")
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}
	if _, err := ctx.Store.GetSettings(); err != nil {
		return fmt.Errorf("failed to query database: %w", err)
	}
	// The context was built before the store was loaded, on default settings.
	if err := ctx.Setup(ctx.Overrides); err != nil {
		logger.Warn("Failed to apply stored settings", "error", err)
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	reporter, ok := ctx.Store.(storage.SchemaReporter)
	if !ok {
		return nil
	}

	current, latest, err := reporter.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	if current < latest {
		return fmt.Errorf("database schema version (%d) is behind (%d), run 'flowday init' to migrate", current, latest)
	}
	return nil
}

func checkSettings(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	if err := validation.Time(settings.DefaultMainTime); err != nil {
		return fmt.Errorf("default_main_time: %w", err)
	}
	if settings.PrepOffsetMin < 0 {
		return fmt.Errorf("prep_offset_min cannot be negative")
	}
	if settings.CacheTTLSec < 0 {
		return fmt.Errorf("cache_ttl_sec cannot be negative")
	}
	return nil
}

func checkClockTimezone(ctx *cli.Context) error {
	loc, err := cli.LoadLocation(ctx.Settings.Timezone)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)
	if now.Year() < 2020 {
		return fmt.Errorf("system clock looks wrong: %s", now.Format(time.RFC3339))
	}
	return nil
}

func checkAPIReachable(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(ctx.Ctx, doctorTimeout)
	defer cancel()
	return ctx.Client.Ping(c)
}

func checkToken(ctx *cli.Context) error {
	if ctx.Tokens != nil {
		_, err := ctx.Tokens.Token()
		return err
	}
	_, _, err := keyring.Resolve()
	if errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("no access token, run 'flowday auth login'")
	}
	return err
}

// checkResources lists every collection concurrently, bypassing the cache.
func checkResources(ctx *cli.Context) error {
	c, cancel := context.WithTimeout(ctx.Ctx, doctorTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(c)
	g.Go(func() error {
		if _, err := ctx.Client.ListFoodItems(gctx); err != nil {
			return fmt.Errorf("food items: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := ctx.Client.ListRecipes(gctx); err != nil {
			return fmt.Errorf("recipes: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := ctx.Client.ListMeals(gctx); err != nil {
			return fmt.Errorf("meals: %w", err)
		}
		return nil
	})
	return g.Wait()
}
