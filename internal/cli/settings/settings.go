package settings

import (
	"fmt"
	"strings"

	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/validation"
)

type SettingsCmd struct {
	Show SettingsShowCmd `cmd:"" help:"Show current settings." default:"1"`
	Set  SettingsSetCmd  `cmd:"" help:"Update settings."`
}

type SettingsShowCmd struct{}

func (c *SettingsShowCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	ctx.Println("Current Settings:")
	ctx.Printf("  API Base URL:          %s\n", settings.APIBaseURL)
	ctx.Printf("  Timezone:              %s\n", settings.Timezone)
	ctx.Printf("  Cache TTL:             %d sec\n", settings.CacheTTLSec)
	ctx.Println("\nHabit Defaults:")
	ctx.Printf("  Default Meal Time:     %s\n", settings.DefaultMainTime)
	ctx.Printf("  Prep Offset:           %d min\n", settings.PrepOffsetMin)
	if ctx.Settings.APIBaseURL != "" && ctx.Settings.APIBaseURL != settings.APIBaseURL {
		ctx.Printf("\n(API URL overridden for this run: %s)\n", ctx.Settings.APIBaseURL)
	}
	return nil
}

type SettingsSetCmd struct {
	APIURL          *string `help:"Base URL of the Flowday API." name:"api-url"`
	DefaultMainTime *string `help:"Meal time used when a habit has none (HH:MM)." name:"default-main-time"`
	PrepOffsetMin   *int    `help:"Minutes before the meal that prep steps default to." name:"prep-offset"`
	CacheTTLSec     *int    `help:"Seconds cached API responses stay fresh (0 disables the cache)." name:"cache-ttl"`
	Timezone        *string `help:"IANA timezone name, or Local."`
}

func (c *SettingsSetCmd) Validate() error {
	if c.APIURL != nil {
		if err := validation.NotEmpty("api-url")(*c.APIURL); err != nil {
			return err
		}
	}
	if c.DefaultMainTime != nil {
		if err := validation.Time(*c.DefaultMainTime); err != nil {
			return err
		}
	}
	if c.PrepOffsetMin != nil && *c.PrepOffsetMin < 0 {
		return fmt.Errorf("prep offset cannot be negative")
	}
	if c.CacheTTLSec != nil && *c.CacheTTLSec < 0 {
		return fmt.Errorf("cache TTL cannot be negative")
	}
	if c.Timezone != nil {
		if _, err := cli.LoadLocation(*c.Timezone); err != nil {
			return err
		}
	}
	return nil
}

func (c *SettingsSetCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	updated := false
	if c.APIURL != nil {
		settings.APIBaseURL = strings.TrimSpace(*c.APIURL)
		updated = true
	}
	if c.DefaultMainTime != nil {
		settings.DefaultMainTime = *c.DefaultMainTime
		updated = true
	}
	if c.PrepOffsetMin != nil {
		settings.PrepOffsetMin = *c.PrepOffsetMin
		updated = true
	}
	if c.CacheTTLSec != nil {
		settings.CacheTTLSec = *c.CacheTTLSec
		updated = true
	}
	if c.Timezone != nil {
		settings.Timezone = *c.Timezone
		updated = true
	}

	if !updated {
		ctx.Println("No changes specified. Use 'settings show' to view settings or flags to update them.")
		return nil
	}
	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	ctx.Println("Settings updated successfully.")
	return nil
}
