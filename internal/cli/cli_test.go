package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/farmbook/internal/farm"
	"github.com/mesh-intelligence/farmbook/internal/memstore"
	"github.com/mesh-intelligence/farmbook/internal/recordapi"
	"github.com/mesh-intelligence/farmbook/internal/sqlite"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func TestInitCreatesConfigAndData(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, os.RemoveAll(env.Config))

	res := env.MustRun("init")
	assert.Contains(t, res.Stdout, "farmbook initialized successfully")

	content, err := os.ReadFile(filepath.Join(env.Config, "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultConfigYAML, string(content))

	_, err = os.Stat(filepath.Join(env.DataDir, sqlite.DBFile))
	assert.NoError(t, err)

	// Idempotent.
	env.MustRun("init")
}

func TestFarmLifecycle(t *testing.T) {
	env := newTestEnv(t)

	created := parseJSON[types.Farm](t, env.MustRun("--json", "farms", "create",
		"--name", "Green Acres", "--location", "Valley Rd", "--type", "organic", "--size", "40").Stdout)
	assert.Equal(t, int64(1), created.ID)

	got := parseJSON[types.Farm](t, env.MustRun("--json", "farms", "get", "1").Stdout)
	assert.Equal(t, created, got)

	res := env.MustRun("farms", "update", "1", "--size", "55.5")
	assert.Equal(t, "Updated farm: 1\n", res.Stdout)
	got = parseJSON[types.Farm](t, env.MustRun("--json", "farms", "get", "1").Stdout)
	assert.Equal(t, "Green Acres", got.Name, "untouched fields keep their value")
	assert.Equal(t, 55.5, got.Size)

	env.MustRun("farms", "create", "--name", "Hill Farm", "--location", "Ridge Ln")
	list := parseJSON[[]types.Farm](t, env.MustRun("--json", "farms", "list", "--search", "ridge").Stdout)
	require.Len(t, list, 1)
	assert.Equal(t, "Hill Farm", list[0].Name)

	table := env.MustRun("farms", "list").Stdout
	assert.Contains(t, table, "ID  NAME")
	assert.Contains(t, table, "Total: 2 farms")

	env.MustRun("farms", "delete", "1")
	res = env.Run("farms", "get", "1")
	assert.Equal(t, exitUserError, res.ExitCode)
	assert.Equal(t, "Error: Farm not found\n", res.Stderr)
}

func TestCommandErrors(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		code   int
		stderr string
	}{
		{
			name:   "validation failure",
			args:   []string{"tasks", "create", "--title", "Weed", "--due", "someday"},
			code:   exitUserError,
			stderr: `Invalid due date "someday"`,
		},
		{
			name:   "missing required field",
			args:   []string{"crops", "create", "--name", "Corn"},
			code:   exitUserError,
			stderr: "Crop variety is required",
		},
		{
			name:   "bad id argument",
			args:   []string{"farms", "get", "abc"},
			code:   exitUserError,
			stderr: `invalid id "abc"`,
		},
		{
			name:   "non-positive id",
			args:   []string{"farms", "get", "0"},
			code:   exitUserError,
			stderr: "Invalid farm id 0",
		},
		{
			name:   "update without fields",
			args:   []string{"farms", "update", "1"},
			code:   exitUserError,
			stderr: "nothing to update",
		},
		{
			name:   "unknown flag",
			args:   []string{"farms", "list", "--colour", "red"},
			code:   exitUserError,
			stderr: "unknown flag",
		},
		{
			name:   "bad filter value",
			args:   []string{"tasks", "list", "--status", "late"},
			code:   exitUserError,
			stderr: `invalid --status "late"`,
		},
		{
			name:   "unknown backend",
			args:   []string{"--backend", "postgres", "farms", "list"},
			code:   exitUserError,
			stderr: "unknown backend",
		},
		{
			name:   "missing weather date",
			args:   []string{"weather", "date", "2025-01-01"},
			code:   exitUserError,
			stderr: "Weather data not found for this date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			res := env.Run(tt.args...)
			assert.Equal(t, tt.code, res.ExitCode, res.Stderr)
			assert.Contains(t, res.Stderr, tt.stderr)
		})
	}
}

func TestTaskCompleteToggles(t *testing.T) {
	env := newTestEnv(t)
	env.MustRun("tasks", "create", "--title", "Irrigate", "--due", "2025-06-01", "--priority", "high", "--category", "watering")

	out := env.MustRun("tasks", "list").Stdout
	assert.Contains(t, out, "overdue")
	assert.Contains(t, out, "Pending: 1, completed: 0, overdue: 1, high priority: 1")

	assert.Equal(t, "Task 1 completed\n", env.MustRun("tasks", "complete", "1").Stdout)
	task := parseJSON[types.Task](t, env.MustRun("--json", "tasks", "get", "1").Stdout)
	assert.True(t, task.Completed)
	assert.Equal(t, "Task 1 reopened\n", env.MustRun("tasks", "complete", "1").Stdout)
}

func TestFinancesDefaultDateAndCategories(t *testing.T) {
	env := newTestEnv(t)
	rec := parseJSON[types.Financial](t, env.MustRun("--json", "finances", "create",
		"--type", "expense", "--category", "fuel", "--amount", "61.20", "--description", "Diesel").Stdout)
	assert.Equal(t, "2025-06-10", rec.Date)

	res := env.Run("finances", "create", "--type", "income", "--category", "fuel", "--amount", "5", "--description", "x")
	assert.Equal(t, exitUserError, res.ExitCode)
	assert.Contains(t, res.Stderr, `Category "fuel" is not valid for income`)

	cats := parseJSON[[]types.Category](t, env.MustRun("--json", "finances", "categories", "--type", "income").Stdout)
	assert.Equal(t, types.FinancialCategories(types.FinancialIncome), cats)

	assert.Contains(t, env.MustRun("finances", "list").Stdout, "Income: 0.00, expenses: 61.20, net: -61.20")
}

func TestSeedDashboardAndWeather(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, "Seeded 2 farms, 4 crops, 6 tasks, 5 financial records, 7 weather days\n", env.MustRun("seed").Stdout)

	crops := parseJSON[[]types.Crop](t, env.MustRun("--json", "crops", "list", "--status", "growing").Stdout)
	require.Len(t, crops, 1)
	assert.Equal(t, "Sweet Corn", crops[0].Name)
	assert.Equal(t, int64(1), crops[0].FarmID)

	sum := parseJSON[farm.Summary](t, env.MustRun("--json", "dashboard").Stdout)
	assert.Equal(t, 3, sum.ActiveCrops)
	assert.Equal(t, 5, sum.PendingTasks)
	assert.Equal(t, 1, sum.OverdueTasks)
	assert.True(t, sum.Totals.Income.Equal(decimal.RequireFromString("23450")), sum.Totals.Income.String())
	assert.True(t, sum.Totals.Expenses.Equal(decimal.RequireFromString("6123.15")), sum.Totals.Expenses.String())
	assert.True(t, sum.Totals.Net.Equal(decimal.RequireFromString("17326.85")), sum.Totals.Net.String())
	require.Len(t, sum.UpcomingTasks, farm.UpcomingTaskCount)
	assert.Equal(t, "Service the combine", sum.UpcomingTasks[0].Title)
	require.NotNil(t, sum.TodayWeather)
	assert.Equal(t, "2025-06-10", sum.TodayWeather.Date)

	text := env.MustRun("dashboard").Stdout
	assert.Contains(t, text, "Net:           17326.85")
	assert.Contains(t, text, "Upcoming tasks")

	ov := parseJSON[farm.Overview](t, env.MustRun("--json", "overview").Stdout)
	assert.Equal(t, 4, ov.TotalCrops)
	assert.Equal(t, 2, ov.ActiveCrops)
	assert.Equal(t, 1, ov.ReadyCrops)
	assert.Equal(t, 5, ov.PendingTasks)
	assert.Equal(t, 1, ov.OverdueTasks)
	assert.Equal(t, []farm.Activity{
		{Kind: farm.ActivityTask, Title: "Completed: Harvest wheat"},
		{Kind: farm.ActivityFinancial, Title: "Expense: Seasonal crew, May", Date: "2025-05-31"},
		{Kind: farm.ActivityFinancial, Title: "Expense: Diesel for spring tillage", Date: "2025-04-18"},
	}, ov.RecentActivity)
	assert.Equal(t, "Service the combine", ov.UpcomingTasks[0].Title)
	require.Len(t, ov.UpcomingTasks, farm.OverviewUpcomingCount)
	require.NotNil(t, ov.Weather)
	assert.Equal(t, "2025-06-10", ov.Weather.Date)
	assert.Empty(t, ov.Unavailable)
	assert.Contains(t, env.MustRun("overview").Stdout, "Ready crops:")

	forecast := parseJSON[[]types.Weather](t, env.MustRun("--json", "weather", "forecast").Stdout)
	require.Len(t, forecast, farm.ForecastDays)
	assert.Equal(t, "2025-06-16", forecast[6].Date)

	w := parseJSON[types.Weather](t, env.MustRun("--json", "weather", "date", "2025-06-13T08:00:00Z").Stdout)
	assert.Equal(t, types.ConditionStormy, w.Condition)
	assert.Contains(t, env.MustRun("weather", "current").Stdout, "Condition:     sunny")
}

func TestSeedFromFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "fx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("farms:\n  - name: Solo\n"), 0o644))

	res := parseJSON[farm.SeedResult](t, env.MustRun("--json", "seed", path).Stdout)
	assert.Equal(t, farm.SeedResult{Farms: 1}, res)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("barns: []\n"), 0o644))
	assert.Equal(t, exitUserError, env.Run("seed", bad).ExitCode)
}

func TestConfigResolution(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		env := newTestEnv(t)
		require.NoError(t, os.RemoveAll(env.Config))
		a := newApp(time.Now)
		a.flags.configDir = env.Config
		a.flags.dataDir = env.DataDir

		_, v, err := a.config()
		require.NoError(t, err)
		cfg, err := a.storeConfig(v)
		require.NoError(t, err)
		assert.Equal(t, types.BackendSQLite, cfg.Backend)
		assert.Equal(t, env.DataDir, cfg.DataDir)
		assert.Equal(t, recordapi.DefaultTimeout, cfg.Remote.Timeout)
		assert.Equal(t, ":8080", v.GetString(cfgKeyServeAddr))
	})

	t.Run("env overrides file, flag overrides env", func(t *testing.T) {
		env := newTestEnv(t)
		t.Setenv("FARMBOOK_BACKEND", "memory")
		a := newApp(time.Now)
		a.flags.configDir = env.Config

		_, v, err := a.config()
		require.NoError(t, err)
		cfg, err := a.storeConfig(v)
		require.NoError(t, err)
		assert.Equal(t, types.BackendMemory, cfg.Backend)
		assert.Empty(t, cfg.DataDir)

		a.flags.backend = types.BackendSQLite
		a.flags.dataDir = env.DataDir
		cfg, err = a.storeConfig(v)
		require.NoError(t, err)
		assert.Equal(t, types.BackendSQLite, cfg.Backend)
	})

	t.Run("config data_dir beats environment", func(t *testing.T) {
		env := newTestEnv(t)
		fromFile := filepath.Join(t.TempDir(), "from-file")
		env.writeConfig("backend: sqlite\ndata_dir: " + fromFile + "\n")
		t.Setenv("FARMBOOK_DATA_DIR", filepath.Join(t.TempDir(), "from-env"))
		a := newApp(time.Now)
		a.flags.configDir = env.Config

		_, v, err := a.config()
		require.NoError(t, err)
		cfg, err := a.storeConfig(v)
		require.NoError(t, err)
		assert.Equal(t, fromFile, cfg.DataDir)
	})

	t.Run("dotenv supplies remote credentials", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: remote\nremote:\n  base_url: http://records.local\n  timeout: 5s\n")
		require.NoError(t, os.WriteFile(filepath.Join(env.Config, ".env"),
			[]byte("FARMBOOK_REMOTE_PROJECT_ID=proj-1\nFARMBOOK_REMOTE_PUBLIC_KEY=key-1\n"), 0o600))
		t.Cleanup(func() {
			os.Unsetenv("FARMBOOK_REMOTE_PROJECT_ID")
			os.Unsetenv("FARMBOOK_REMOTE_PUBLIC_KEY")
		})
		a := newApp(time.Now)
		a.flags.configDir = env.Config

		_, v, err := a.config()
		require.NoError(t, err)
		cfg, err := a.storeConfig(v)
		require.NoError(t, err)
		assert.Equal(t, types.RemoteConfig{
			BaseURL:   "http://records.local",
			ProjectID: "proj-1",
			PublicKey: "key-1",
			Timeout:   5 * time.Second,
		}, cfg.Remote)
	})

	t.Run("remote without url is a usage error", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig("backend: remote\n")
		res := env.Run("farms", "list")
		assert.Equal(t, exitUserError, res.ExitCode)
		assert.Contains(t, res.Stderr, "requires a base URL")
	})
}

func TestRemoteBackend(t *testing.T) {
	store := memstore.New()
	srv := httptest.NewServer(recordapi.NewServer(store, recordapi.ServerOptions{ProjectID: "p", PublicKey: "k"}, nil).Handler())
	defer srv.Close()

	env := newTestEnv(t)
	env.writeConfig(fmt.Sprintf("backend: remote\nremote:\n  base_url: %s\n  project_id: p\n  public_key: k\n", srv.URL))

	env.MustRun("farms", "create", "--name", "Remote Farm")
	assert.Equal(t, 1, store.Len(types.TableFarms))
	list := parseJSON[[]types.Farm](t, env.MustRun("--json", "farms", "list").Stdout)
	require.Len(t, list, 1)
	assert.Equal(t, "Remote Farm", list[0].Name)

	env.writeConfig(fmt.Sprintf("backend: remote\nremote:\n  base_url: %s\n  project_id: p\n  public_key: wrong\n", srv.URL))
	res := env.Run("farms", "list")
	assert.Equal(t, exitSysError, res.ExitCode)
	assert.Contains(t, res.Stderr, "Invalid API key")
}

func TestServeStopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	a := newApp(func() time.Time { return fixedNow })
	a.flags.configDir = env.Config
	a.flags.backend = types.BackendMemory

	s, err := a.open()
	require.NoError(t, err)
	defer s.close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	root := a.rootCmd()
	go func() {
		done <- a.serve(ctx, root, s, serveFlags{addr: "127.0.0.1:0", seed: true})
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
	farms, err := s.svc.Farms.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, farms, 2, "sample data seeded before serving")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitSuccess},
		{"not found", types.NewError(types.ErrNotFound, "get", "farms_c", "Farm not found", nil), exitUserError},
		{"validation", types.Validationf("Farm name is required"), exitUserError},
		{"wrapped validation", fmt.Errorf("seed farm #1: %w", types.Validationf("x")), exitUserError},
		{"usage", usagef("invalid id %q", "x"), exitUserError},
		{"remote failure", types.NewError(types.ErrRemoteFailure, "fetch", "farms_c", "boom", nil), exitSysError},
		{"network", types.NewError(types.ErrNetwork, "fetch", "farms_c", "down", context.DeadlineExceeded), exitSysError},
		{"plain", errors.New("disk full"), exitSysError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)
	out := env.MustRun("version").Stdout
	assert.True(t, strings.HasPrefix(out, "farmbook v"+Version+"\n"), out)
	assert.Contains(t, out, modulePath)
}

func TestSetConfigValueKeepsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigYAML), 0o644))

	require.NoError(t, setConfigValue(path, cfgKeyDataDir, "/srv/farmbook"))
	require.NoError(t, setConfigValue(path, cfgKeyBackend, "memory"))

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "# Record store: memory, sqlite or remote")
	assert.Contains(t, string(out), "backend: memory")
	assert.Contains(t, string(out), "data_dir: /srv/farmbook")
	assert.Contains(t, string(out), "timeout: 30s")
}

func TestInitGlobalRecordsDataDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_DATA_HOME only applies on linux")
	}
	env := newTestEnv(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	root := newApp(func() time.Time { return fixedNow }).rootCmd()
	var stdout, stderr strings.Builder
	code := run(root, []string{"--config-dir", env.Config, "--json", "init", "--global"}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())

	out := parseJSON[map[string]string](t, stdout.String())
	assert.Equal(t, filepath.Join(os.Getenv("XDG_DATA_HOME"), "farmbook"), out["data_dir"])

	content, err := os.ReadFile(filepath.Join(env.Config, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "data_dir: "+out["data_dir"])
}

func TestOverviewWithoutWeather(t *testing.T) {
	env := newTestEnv(t)
	env.MustRun("farms", "create", "--name", "Hilltop", "--location", "Ridge Rd")

	res := env.MustRun("overview")
	assert.Contains(t, res.Stdout, "Unavailable: weather")
	assert.Contains(t, res.Stdout, "No recent activity.")
	assert.Contains(t, res.Stdout, "No weather data available.")
	assert.Empty(t, res.Stderr)
}
