package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"sales-engine/internal/engine"
	"sales-engine/internal/migrate"
	"sales-engine/internal/stores"
	"sales-engine/internal/testdb"
	"sales-engine/internal/transport/httpapi"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	operational := testdb.Open(t)
	product := testdb.Open(t)
	if err := migrate.MigrateOperational(ctx, operational, zap.NewNop(), migrate.MigrateOptions{}); err != nil {
		t.Fatalf("operational migration failed: %v", err)
	}
	if err := migrate.MigrateProduct(ctx, product, zap.NewNop(), migrate.MigrateOptions{}); err != nil {
		t.Fatalf("product migration failed: %v", err)
	}

	eng := engine.New(&stores.Static{OperationalDB: operational, ProductDB: product}, zap.NewNop())
	srv := httptest.NewServer(httpapi.SetupRouter(httpapi.NewHandler(eng, zap.NewNop())))
	t.Cleanup(srv.Close)
	return srv
}

func postTool(t *testing.T, srv *httptest.Server, tool string, body any) (int, map[string]any) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshaling request: %v", err)
	}
	resp, err := http.Post(srv.URL+"/tools/"+tool, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("posting: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.StatusCode, decoded
}

func TestToolRoundTrip(t *testing.T) {
	srv := newServer(t)

	code, body := postTool(t, srv, "customer_crud", map[string]any{
		"operation": "create",
		"args":      map[string]any{"name": "Bob Lee"},
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["result"] != "✅ Customer 'Bob Lee' created" {
		t.Fatalf("unexpected result: %v", body["result"])
	}
	sql, _ := body["sql"].(string)
	if !strings.HasPrefix(sql, "INSERT INTO customers") {
		t.Fatalf("unexpected sql: %q", sql)
	}

	code, body = postTool(t, srv, "customer_crud", map[string]any{
		"operation": "read",
		"args":      map[string]any{"customer_name": "Bob Lee"},
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	rows, ok := body["result"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("unexpected result: %v", body["result"])
	}
}

func TestToolFailuresStayHTTP200(t *testing.T) {
	srv := newServer(t)

	code, body := postTool(t, srv, "customer_crud", map[string]any{
		"operation": "read",
		"args":      map[string]any{"customer_name": "Nobody"},
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["result"] != "❌ No matching record found" {
		t.Fatalf("unexpected result: %v", body["result"])
	}
	if body["sql"] != nil {
		t.Fatalf("expected null sql, got %v", body["sql"])
	}
}

func TestMalformedRequests(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Post(srv.URL+"/tools/customer_crud", "application/json", strings.NewReader("{not json"))
	if err != nil {
		t.Fatalf("posting: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	code, _ := postTool(t, srv, "customer_crud", map[string]any{"args": map[string]any{}})
	if code != http.StatusBadRequest {
		t.Fatalf("missing operation: status = %d, want 400", code)
	}
}

func TestListTools(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/tools")
	if err != nil {
		t.Fatalf("getting tools: %v", err)
	}
	defer resp.Body.Close()

	var tools []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&tools); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(tools) != 4 {
		t.Fatalf("tool count = %d, want 4", len(tools))
	}
	if tools[0]["name"] != "customer_crud" {
		t.Fatalf("unexpected first tool: %v", tools[0])
	}
}

func TestPendingSyncsEmpty(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/pending-syncs")
	if err != nil {
		t.Fatalf("getting pending syncs: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty backlog, got %v", rows)
	}
}

func TestHealthz(t *testing.T) {
	srv := newServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("getting healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
