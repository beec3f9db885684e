package foods

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/flowday/flowday/internal/api"
	"github.com/flowday/flowday/internal/cli"
	"github.com/flowday/flowday/internal/constants"
	"github.com/flowday/flowday/internal/models"
	"github.com/flowday/flowday/internal/storage/sqlite"
)

// pantry serves /api/food-items from memory.
type pantry struct {
	mu    sync.Mutex
	items []models.FoodItem
	gets  int
}

func (p *pantry) reply(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": status < 300, "data": data})
}

func (p *pantry) find(id string) int {
	for i, item := range p.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (p *pantry) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if r.URL.Path == constants.PathFoodItems {
		switch r.Method {
		case http.MethodGet:
			p.gets++
			p.reply(w, http.StatusOK, p.items)
		case http.MethodPost:
			var in api.FoodItemInput
			_ = json.NewDecoder(r.Body).Decode(&in)
			item := models.FoodItem{
				ID:        fmt.Sprintf("food-%d", len(p.items)+1),
				Name:      in.Name,
				Quantity:  in.Quantity,
				Unit:      in.Unit,
				ExpiresOn: in.ExpiresOn,
			}
			p.items = append(p.items, item)
			p.reply(w, http.StatusCreated, item)
		}
		return
	}

	id := strings.TrimPrefix(r.URL.Path, constants.PathFoodItems+"/")
	i := p.find(id)
	if i < 0 {
		p.reply(w, http.StatusNotFound, nil)
		return
	}
	switch r.Method {
	case http.MethodGet:
		p.reply(w, http.StatusOK, p.items[i])
	case http.MethodPut:
		var in api.FoodItemInput
		_ = json.NewDecoder(r.Body).Decode(&in)
		p.items[i].Name = in.Name
		p.items[i].Quantity = in.Quantity
		p.items[i].Unit = in.Unit
		p.items[i].ExpiresOn = in.ExpiresOn
		p.reply(w, http.StatusOK, p.items[i])
	case http.MethodDelete:
		p.items = append(p.items[:i], p.items[i+1:]...)
		p.reply(w, http.StatusOK, nil)
	}
}

func setupContext(t *testing.T) (*cli.Context, *pantry, *bytes.Buffer) {
	t.Helper()
	p := &pantry{}
	srv := httptest.NewServer(p)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "flowday.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	out := &bytes.Buffer{}
	ctx := cli.NewContext(store)
	ctx.Out = out
	ctx.Tokens = api.StaticToken("test-token")
	if err := ctx.Setup(cli.Overrides{APIURL: srv.URL, ConfigDir: dir}); err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	return ctx, p, out
}

func TestFoodLifecycle(t *testing.T) {
	ctx, _, out := setupContext(t)

	if err := (&FoodListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No food items found") {
		t.Errorf("unexpected empty list output: %s", out.String())
	}

	out.Reset()
	if err := (&FoodAddCmd{Name: " Rice ", Quantity: 2, Unit: "kg"}).Run(ctx); err != nil {
		t.Fatalf("food add failed: %v", err)
	}
	if !strings.Contains(out.String(), "Added food item: Rice (ID: food-1)") {
		t.Errorf("unexpected add output: %s", out.String())
	}

	// The add must invalidate the cached empty list.
	out.Reset()
	if err := (&FoodListCmd{ShowIDs: true}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Rice (ID: food-1) - 2 kg") {
		t.Errorf("added item missing from list: %s", out.String())
	}

	out.Reset()
	qty := 0.5
	if err := (&FoodEditCmd{ID: "food-1", Quantity: &qty}).Run(ctx); err != nil {
		t.Fatalf("food edit failed: %v", err)
	}
	out.Reset()
	if err := (&FoodShowCmd{ID: "food-1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "Quantity: 0.5 kg") {
		t.Errorf("edit did not keep the unit or apply the quantity: %s", out.String())
	}

	out.Reset()
	if err := (&FoodDeleteCmd{ID: "food-1"}).Run(ctx); err != nil {
		t.Fatalf("food delete failed: %v", err)
	}
	out.Reset()
	if err := (&FoodListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No food items found") {
		t.Errorf("deleted item still listed: %s", out.String())
	}
}

func TestFoodListIsCached(t *testing.T) {
	ctx, p, _ := setupContext(t)

	for i := 0; i < 3; i++ {
		if err := (&FoodListCmd{}).Run(ctx); err != nil {
			t.Fatal(err)
		}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.gets != 1 {
		t.Errorf("API listed food items %d times, want 1", p.gets)
	}
}

func TestFoodEditWithoutChanges(t *testing.T) {
	ctx, p, out := setupContext(t)
	p.items = []models.FoodItem{{ID: "food-1", Name: "Rice", Quantity: 1}}

	if err := (&FoodEditCmd{ID: "food-1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No changes specified.") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestFoodAddValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     FoodAddCmd
		wantErr bool
	}{
		{"valid", FoodAddCmd{Name: "Rice", Quantity: 1}, false},
		{"blank name", FoodAddCmd{Name: "  ", Quantity: 1}, true},
		{"negative quantity", FoodAddCmd{Name: "Rice", Quantity: -1}, true},
		{"bad expiry", FoodAddCmd{Name: "Rice", Expires: "tomorrow"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := []struct {
		q    float64
		unit string
		want string
	}{
		{2, "kg", "2 kg"},
		{0.5, "", "0.5"},
		{1.25, "l", "1.25 l"},
	}
	for _, tt := range tests {
		if got := formatQuantity(tt.q, tt.unit); got != tt.want {
			t.Errorf("formatQuantity(%v, %q) = %q, want %q", tt.q, tt.unit, got, tt.want)
		}
	}
}
