package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const (
	mealID = "0d6f7c1a-2b3c-4d5e-8f90-a1b2c3d4e5f6"
	stepA  = "8b0d8a3e-2f4c-4c8e-9c57-0e6f7c1a2b01"
	stepB  = "8b0d8a3e-2f4c-4c8e-9c57-0e6f7c1a2b02"
)

// fakeAPI is an in-memory stand-in for the Flowday REST API.
type fakeAPI struct {
	mu      sync.Mutex
	foods   []map[string]interface{}
	batches []map[string]interface{}
}

func (f *fakeAPI) reply(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": status < 300, "data": data, "message": message})
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path != "/api/health" && r.Header.Get("Authorization") != "Bearer e2e-token" {
		f.reply(w, http.StatusUnauthorized, nil, "invalid token")
		return
	}

	meal := map[string]interface{}{
		"id":   mealID,
		"name": "Taco night",
		"recipes": []interface{}{map[string]interface{}{
			"id":   "recipe-1",
			"name": "Tacos",
			"instructions": []interface{}{
				map[string]interface{}{"id": stepA, "step": 1, "text": "Marinate"},
				map[string]interface{}{"id": stepB, "step": 2, "text": "Chop"},
			},
		}},
	}

	switch {
	case r.URL.Path == "/api/health":
		f.reply(w, http.StatusOK, map[string]string{"status": "ok"}, "")
	case r.URL.Path == "/api/food-items" && r.Method == http.MethodGet:
		f.reply(w, http.StatusOK, f.foods, "")
	case r.URL.Path == "/api/food-items" && r.Method == http.MethodPost:
		var item map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&item)
		item["id"] = fmt.Sprintf("food-%d", len(f.foods)+1)
		item["createdAt"] = "2024-01-10T09:00:00Z"
		f.foods = append(f.foods, item)
		f.reply(w, http.StatusCreated, item, "")
	case r.URL.Path == "/api/recipes":
		f.reply(w, http.StatusOK, meal["recipes"], "")
	case r.URL.Path == "/api/meals":
		f.reply(w, http.StatusOK, []interface{}{meal}, "")
	case r.URL.Path == "/api/meals/"+mealID:
		f.reply(w, http.StatusOK, meal, "")
	case r.URL.Path == "/api/habit/batch":
		var req map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&req)
		f.batches = append(f.batches, req)
		subs, _ := req["subEntities"].([]interface{})
		configured := 0
		for _, s := range subs {
			if m, ok := s.(map[string]interface{}); ok && m["subEntityId"] != nil {
				configured++
			}
		}
		f.reply(w, http.StatusCreated, map[string]interface{}{
			"domain":              "meal",
			"userConfiguredCount": configured,
			"autoAddedCount":      2 - configured,
			"totalSubEntityCount": 2,
		}, "")
	default:
		f.reply(w, http.StatusNotFound, nil, "not found")
	}
}

func findBinary(t *testing.T) string {
	t.Helper()
	binDir := os.Getenv("FLOWDAY_BIN_DIR")
	if binDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			t.Fatalf("Failed to get cwd: %v", err)
		}
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)

	cliPath := filepath.Join(binDir, "flowday")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s, build it first", cliPath)
	}
	return cliPath
}

func TestEndToEndWorkflow(t *testing.T) {
	cliPath := findBinary(t)

	api := &fakeAPI{}
	srv := httptest.NewServer(api)
	defer srv.Close()

	tempDir := t.TempDir()
	var env []string
	for _, e := range os.Environ() {
		if !strings.HasPrefix(e, "HOME=") && !strings.HasPrefix(e, "FLOWDAY_") {
			env = append(env, e)
		}
	}
	env = append(env,
		"HOME="+tempDir,
		"FLOWDAY_TOKEN=e2e-token",
		"FLOWDAY_CACHE="+filepath.Join(tempDir, "flowday", "flowday.db"),
		"FLOWDAY_API_URL="+srv.URL,
	)

	run := func(args ...string) string {
		t.Helper()
		cmd := exec.Command(cliPath, args...)
		cmd.Env = env
		out, err := cmd.CombinedOutput()
		if err != nil {
			t.Fatalf("flowday %s failed: %v\n%s", strings.Join(args, " "), err, out)
		}
		return string(out)
	}

	t.Run("init", func(t *testing.T) {
		out := run("init")
		if !strings.Contains(out, "Initialized flowday storage at:") {
			t.Errorf("unexpected init output: %s", out)
		}
	})

	t.Run("food", func(t *testing.T) {
		out := run("food", "add", "Rice", "--quantity", "2", "--unit", "kg")
		if !strings.Contains(out, "Added food item: Rice") {
			t.Errorf("unexpected add output: %s", out)
		}
		out = run("food", "list")
		if !strings.Contains(out, "Rice") {
			t.Errorf("new food item missing from list: %s", out)
		}
	})

	t.Run("meal", func(t *testing.T) {
		out := run("meal", "show", mealID)
		if !strings.Contains(out, "1. Marinate") || !strings.Contains(out, "2. Chop") {
			t.Errorf("steps not numbered: %s", out)
		}
	})

	t.Run("habit", func(t *testing.T) {
		out := run("habit", "create", "--meal", mealID, "--weekday", "wed", "--time", "18:00",
			"--start-date", "2024-01-10", "--step", "1=tue@17:00", "--skip", "2")
		if !strings.Contains(out, "Habit created for Taco night") {
			t.Errorf("unexpected habit output: %s", out)
		}

		api.mu.Lock()
		defer api.mu.Unlock()
		if len(api.batches) != 1 {
			t.Fatalf("API received %d batches", len(api.batches))
		}
		subs := api.batches[0]["subEntities"].([]interface{})
		if len(subs) != 1 {
			t.Fatalf("subEntities = %v", subs)
		}
		sub := subs[0].(map[string]interface{})
		if sub["subEntityId"] != stepA || sub["scheduledWeekday"] != "tuesday" || sub["scheduledTime"] != "17:00" {
			t.Errorf("sub-entity = %v", sub)
		}
	})

	t.Run("history", func(t *testing.T) {
		out := run("habit", "history")
		if !strings.Contains(out, mealID) || !strings.Contains(out, "succeeded") {
			t.Errorf("submission not logged: %s", out)
		}
	})

	t.Run("doctor", func(t *testing.T) {
		out := run("doctor")
		if !strings.Contains(out, "All diagnostics passed!") {
			t.Errorf("doctor failed: %s", out)
		}
	})
}
