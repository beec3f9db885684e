package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/habits"
	"github.com/flowday/flowday/internal/keyring"
	"github.com/flowday/flowday/internal/logger"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/query"
	"github.com/flowday/flowday/internal/schedule"
	"github.com/flowday/flowday/internal/storage"
)

// Overrides are the global flags that take precedence over stored settings.
type Overrides struct {
	APIURL    string
	NoCache   bool
	ConfigDir string
}

type Context struct {
	// Ctx is cancelled on interrupt; every API call uses it.
	Ctx      context.Context
	Store    storage.Provider
	Settings models.Settings
	Defaults schedule.Defaults
	Location *time.Location
	Client   *api.Client
	Cache    *query.Cache
	Repo     *query.Repository
	Habits   *habits.Submitter
	Out      io.Writer

	// Tokens resolves the bearer token; nil means the OS keyring.
	Tokens api.TokenSource

	// Overrides are the flags the last Setup ran with.
	Overrides Overrides
}

func NewContext(store storage.Provider) *Context {
	return &Context{
		Ctx:      context.Background(),
		Store:    store,
		Location: time.Local,
		Out:      os.Stdout,
	}
}

// Setup resolves the effective settings and builds the API client, query
// cache and habit submitter. The store must already be loaded.
func (c *Context) Setup(o Overrides) error {
	c.Overrides = o
	settings, err := c.Store.GetSettings()
	if err != nil {
		logger.Warn("Falling back to default settings", "error", err)
		settings = models.DefaultSettings()
	}
	models.ApplyDefaultSettings(&settings)
	if o.APIURL != "" {
		settings.APIBaseURL = o.APIURL
	}
	c.Settings = settings
	c.Defaults = schedule.DefaultsFromSettings(settings)

	loc, err := LoadLocation(settings.Timezone)
	if err != nil {
		return err
	}
	c.Location = loc

	tokens := c.Tokens
	if tokens == nil {
		tokens = keyring.TokenSource{}
	}
	client, err := api.New(settings.APIBaseURL, tokens)
	if err != nil {
		return err
	}
	c.Client = client

	var opts []query.Option
	if o.NoCache {
		opts = append(opts, query.WithoutPersistence())
	}
	c.Cache = query.New(c.Store, time.Duration(settings.CacheTTLSec)*time.Second, opts...)
	c.Repo = query.NewRepository(client, c.Cache)

	lockDir := o.ConfigDir
	if lockDir == "" {
		lockDir = os.TempDir()
	}
	c.Habits = habits.NewSubmitter(c.Repo, c.Store, filepath.Join(lockDir, constants.SubmitLockfileName))

	logger.Debug("Context ready", "api", client.BaseURL(), "cache_ttl_sec", settings.CacheTTLSec, "no_cache", o.NoCache)
	return nil
}

// Today returns the current time in the configured timezone.
func (c *Context) Today() time.Time {
	return time.Now().In(c.Location)
}

// LoadLocation resolves a timezone setting. "Local" and "" mean the system zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == constants.DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}

// StepSpec is one --step N=weekday@HH:MM argument.
type StepSpec struct {
	Step    int
	Weekday models.Weekday
	Time    models.ClockTime
}

// ParseStep parses "N=weekday@HH:MM", e.g. "2=tue@17:30".
func ParseStep(s string) (StepSpec, error) {
	num, rest, ok := strings.Cut(strings.TrimSpace(s), "=")
	if !ok {
		return StepSpec{}, fmt.Errorf("invalid step %q, expected N=weekday@HH:MM", s)
	}
	step, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || step < 1 {
		return StepSpec{}, fmt.Errorf("invalid step number in %q", s)
	}
	day, clock, ok := strings.Cut(rest, "@")
	if !ok {
		return StepSpec{}, fmt.Errorf("invalid step %q, expected N=weekday@HH:MM", s)
	}
	wd, err := models.ParseWeekday(day)
	if err != nil {
		return StepSpec{}, err
	}
	t, err := models.ParseClockTime(clock)
	if err != nil {
		return StepSpec{}, err
	}
	return StepSpec{Step: step, Weekday: wd, Time: t}, nil
}

// Printf writes to the context's output.
func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

// Println writes to the context's output.
func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}
