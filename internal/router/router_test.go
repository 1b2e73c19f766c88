package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	fsblob "horse-treatment-records/internal/adapters/blob/fs"
	"horse-treatment-records/internal/adapters/storage/sqlstore"
	"horse-treatment-records/internal/router"
)

const adminPIN = "4242"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newServer(t *testing.T) (*httptest.Server, *testClock) {
	t.Helper()
	ts, clock, _ := newServerWithDB(t)
	return ts, clock
}

func newServerWithDB(t *testing.T) (*httptest.Server, *testClock, *sqlstore.DB) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "records.db")
	if err := sqlstore.Migrate(sqlstore.SQLite, path, nil); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db, err := sqlstore.Open(context.Background(), sqlstore.SQLite, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store, err := fsblob.New(filepath.Join(dir, "exports"))
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}

	clock := &testClock{now: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	h, err := router.NewRouter(router.Options{
		DB:         db,
		AdminPIN:   adminPIN,
		SessionTTL: 24 * time.Hour,
		Blob:       store,
		Now:        clock.Now,
	})
	if err != nil {
		t.Fatalf("new router: %v", err)
	}

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts, clock, db
}

func TestHTTP_EndToEnd_TreatmentGrid(t *testing.T) {
	ts, _ := newServer(t)
	admin := login(t, ts.URL, "admin", "admin", adminPIN)

	stableID := create(t, ts.URL, "/stables", admin, map[string]any{"name": "Hillside", "pin": "1111"})
	vetID := create(t, ts.URL, "/vets", admin, map[string]any{"name": "Dr. Hale", "pin": "2222"})
	ownerID := create(t, ts.URL, "/owners", admin, map[string]any{"name": "Carr", "stable_id": stableID})
	horseID := create(t, ts.URL, "/horses", admin, map[string]any{"name": "Test Horse", "owner_id": ownerID, "vet_id": vetID})

	cogginsID := typeID(t, ts.URL, admin, "Coggins")

	// 1) Vet registra fecha de Coggins
	vet := login(t, ts.URL, "vet", vetID, "2222")
	var first struct {
		ID            string  `json:"id"`
		TreatmentDate *string `json:"treatment_date"`
	}
	{
		st, body := doReq(t, ts.URL, "PUT", "/treatments", vet, map[string]any{
			"horse_id":          horseID,
			"treatment_type_id": cogginsID,
			"treatment_date":    "2024-03-01",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 upsert, got %d body=%s", st, string(body))
		}
		_ = json.Unmarshal(body, &first)
		if first.ID == "" || first.TreatmentDate == nil || *first.TreatmentDate != "2024-03-01" {
			t.Fatalf("unexpected upsert body=%s", string(body))
		}
	}

	// 2) Mismo caballo y tipo conserva el id de la fila
	{
		st, body := doReq(t, ts.URL, "PUT", "/treatments", vet, map[string]any{
			"horse_id":          horseID,
			"treatment_type_id": cogginsID,
			"treatment_date":    "2024-05-20",
			"notes":             "negative",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 re-upsert, got %d body=%s", st, string(body))
		}
		var again struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(body, &again)
		if again.ID != first.ID {
			t.Fatalf("expected same treatment id %s, got %s", first.ID, again.ID)
		}
	}

	// 3) La grilla muestra la última fecha
	{
		st, body := doReq(t, ts.URL, "GET", "/grid", vet, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 grid, got %d body=%s", st, string(body))
		}
		var g struct {
			Horses []struct {
				ID string `json:"id"`
			} `json:"horses"`
			Treatments map[string]map[string]struct {
				Date  *string `json:"date"`
				Notes *string `json:"notes"`
			} `json:"treatments"`
		}
		_ = json.Unmarshal(body, &g)
		if len(g.Horses) != 1 || g.Horses[0].ID != horseID {
			t.Fatalf("expected one horse in grid, body=%s", string(body))
		}
		cell, ok := g.Treatments[horseID][cogginsID]
		if !ok || cell.Date == nil || *cell.Date != "2024-05-20" || cell.Notes == nil || *cell.Notes != "negative" {
			t.Fatalf("unexpected grid cell body=%s", string(body))
		}
	}

	// 4) El export CSV etiqueta la celda
	{
		st, body := doReq(t, ts.URL, "GET", "/grid/export.csv", vet, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 csv, got %d", st)
		}
		if !strings.Contains(string(body), "Test Horse") || !strings.Contains(string(body), "2024-05-20 (recent)") {
			t.Fatalf("unexpected csv body=%s", string(body))
		}
	}

	// 5) Limpiar la celda la quita de la grilla
	{
		st, body := doReq(t, ts.URL, "DELETE", "/treatments/"+first.ID, vet, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 delete treatment, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "DELETE", "/treatments/"+first.ID, vet, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 deleting twice, got %d", st)
		}
	}

	// 6) Dueño con caballo activo no se puede borrar
	{
		st, body := doReq(t, ts.URL, "DELETE", "/owners/"+ownerID, admin, nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 deleting owner, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), "1 active horse") {
			t.Fatalf("expected horse count in error, body=%s", string(body))
		}
	}

	// 7) Admin archiva un snapshot
	{
		st, body := doReq(t, ts.URL, "POST", "/grid/exports", admin, nil)
		if st != http.StatusCreated {
			t.Fatalf("expected 201 archive, got %d body=%s", st, string(body))
		}
		st, body = doReq(t, ts.URL, "GET", "/grid/exports", admin, nil)
		if st != http.StatusOK || !strings.Contains(string(body), "grid/") {
			t.Fatalf("expected archived key, got %d body=%s", st, string(body))
		}
		st, _ = doReq(t, ts.URL, "POST", "/grid/exports", vet, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 archive by vet, got %d", st)
		}
	}
}

func TestHTTP_StableScope(t *testing.T) {
	ts, _ := newServer(t)
	admin := login(t, ts.URL, "admin", "admin", adminPIN)

	hillside := create(t, ts.URL, "/stables", admin, map[string]any{"name": "Hillside", "pin": "1111"})
	meadow := create(t, ts.URL, "/stables", admin, map[string]any{"name": "Meadow", "pin": "3333"})
	carr := create(t, ts.URL, "/owners", admin, map[string]any{"name": "Carr", "stable_id": hillside})
	dunn := create(t, ts.URL, "/owners", admin, map[string]any{"name": "Dunn", "stable_id": meadow})
	mine := create(t, ts.URL, "/horses", admin, map[string]any{"name": "Bramble", "owner_id": carr})
	other := create(t, ts.URL, "/horses", admin, map[string]any{"name": "Juniper", "owner_id": dunn})

	stable := login(t, ts.URL, "stable", hillside, "1111")

	{
		st, body := doReq(t, ts.URL, "GET", "/horses", stable, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list horses, got %d body=%s", st, string(body))
		}
		if !strings.Contains(string(body), mine) || strings.Contains(string(body), other) {
			t.Fatalf("stable sees horses outside its scope, body=%s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/horses/"+other, stable, nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 for out-of-scope horse, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/grid?stable_id="+meadow, stable, nil)
		if st != http.StatusOK || strings.Contains(string(body), other) {
			t.Fatalf("stable filter override leaked rows, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/horses", stable, map[string]any{"name": "Nope", "owner_id": carr})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 create horse by stable, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/vets", stable, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 list vets by stable, got %d", st)
		}
	}
}

func TestHTTP_AuthFailures(t *testing.T) {
	ts, clock := newServer(t)

	{
		st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"ok"`) {
			t.Fatalf("expected healthy, got %d body=%s", st, string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/horses", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/grid", "not-a-token", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 for unknown token, got %d", st)
		}
	}
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/login", "", map[string]any{"role": "admin", "id": "admin", "pin": "nope"})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 wrong pin, got %d", st)
		}
	}

	admin := login(t, ts.URL, "admin", "admin", adminPIN)
	{
		st, body := doReq(t, ts.URL, "GET", "/auth/me", admin, nil)
		if st != http.StatusOK || !strings.Contains(string(body), `"role":"admin"`) {
			t.Fatalf("expected admin identity, got %d body=%s", st, string(body))
		}
	}

	clock.Advance(25 * time.Hour)
	{
		st, _ := doReq(t, ts.URL, "GET", "/auth/me", admin, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 for expired token, got %d", st)
		}
	}

	fresh := login(t, ts.URL, "admin", "admin", adminPIN)
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/logout", fresh, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 logout, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/auth/me", fresh, nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 after logout, got %d", st)
		}
	}
}

func TestHTTP_SessionStoreFailureIsServerError(t *testing.T) {
	ts, _, db := newServerWithDB(t)
	admin := login(t, ts.URL, "admin", "admin", adminPIN)

	if _, err := db.Exec("DROP TABLE sessions"); err != nil {
		t.Fatalf("drop sessions: %v", err)
	}

	st, body := doReq(t, ts.URL, "GET", "/grid", admin, nil)
	if st != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the session lookup fails, got %d body=%s", st, string(body))
	}
	if !strings.Contains(string(body), "internal error") {
		t.Fatalf("expected generic error body, got %s", string(body))
	}
}

func TestHTTP_PublicSurfaces(t *testing.T) {
	ts, _ := newServer(t)

	for _, path := range []string{"/", "/static/app.js", "/swagger/doc.json", "/metrics"} {
		st, body := doReq(t, ts.URL, "GET", path, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d body=%s", path, st, string(body))
		}
	}

	_, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if !strings.Contains(string(body), "horse_records_http_requests_total") {
		t.Fatalf("expected request counter in metrics output")
	}
}

func login(t *testing.T, baseURL, role, id, pin string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/login", "", map[string]any{"role": role, "id": id, "pin": pin})
	if st != http.StatusOK {
		t.Fatalf("expected 200 login as %s, got %d body=%s", role, st, string(body))
	}
	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.Token == "" {
		t.Fatalf("login: missing token body=%s", string(body))
	}
	return resp.Token
}

func create(t *testing.T, baseURL, path, token string, payload map[string]any) string {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", path, token, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 POST %s, got %d body=%s", path, st, string(body))
	}
	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("POST %s: missing id body=%s", path, string(body))
	}
	return resp.ID
}

func typeID(t *testing.T, baseURL, token, name string) string {
	t.Helper()

	st, body := doReq(t, baseURL, "GET", "/treatment-types", token, nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 list types, got %d body=%s", st, string(body))
	}
	var items []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	_ = json.Unmarshal(body, &items)
	for _, it := range items {
		if it.Name == name {
			return it.ID
		}
	}
	t.Fatalf("treatment type %q not seeded, body=%s", name, string(body))
	return ""
}

func doReq(t *testing.T, baseURL, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
