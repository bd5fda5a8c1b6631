//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"homebase-go/internal/config"
	"homebase-go/internal/db"
	analyticsdomain "homebase-go/internal/domain/analytics"
	categorizedomain "homebase-go/internal/domain/categorize"
	householddomain "homebase-go/internal/domain/household"
	ledgerdomain "homebase-go/internal/domain/ledger"
	userdomain "homebase-go/internal/domain/user"
	analyticsrepo "homebase-go/internal/repository/postgres/analytics"
	householdrepo "homebase-go/internal/repository/postgres/household"
	ledgerrepo "homebase-go/internal/repository/postgres/ledger"
	userrepo "homebase-go/internal/repository/postgres/user"
	"homebase-go/internal/transport/httpserver"
	"homebase-go/internal/transport/httpserver/handler"
	"homebase-go/pkg/logger"
)

// Tokens accepted by the fake identity provider, mapped to user ids.
var users = map[string]string{
	"alice": "11111111-1111-1111-1111-111111111111",
	"bob":   "22222222-2222-2222-2222-222222222222",
	"carol": "33333333-3333-3333-3333-333333333333",
}

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)
	log := logger.Nop()

	cfg := config.Config{
		RequestTimeout: 10 * time.Second,
		DB:             config.DBConfig{DSN: dsn, MaxOpenConns: 5, MaxIdleConns: 2, ConnMaxLifetime: time.Minute},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	ledgerService := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn))
	analyticsService := analyticsdomain.NewService(analyticsrepo.NewPostgres(dbConn), ledgerService)
	householdService := householddomain.NewService(householdrepo.NewPostgres(dbConn), userService, householddomain.WithLogger(log))
	categorizeService := categorizedomain.NewService(nil, categorizedomain.Config{})

	handlers := handler.New(householdService, ledgerService, analyticsService, categorizeService, log)
	router := httpserver.NewRouter(cfg, handlers, userService, nil, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	_ = db.Close(e.db)
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		id, ok := users[token]
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]interface{}{
			"id":    id,
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name": "User " + token,
			},
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE budgets, transactions, invites, household_members, households, user_profiles CASCADE",
	).Error
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("%s %s: expected %d, got %d: %s", resp.Request.Method, resp.Request.URL.Path, want, resp.StatusCode, string(body))
	}
}

func decode(t *testing.T, body []byte, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decode %s: %v", string(body), err)
	}
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type householdResponse struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	OwnerID string   `json:"owner_id"`
	Members []string `json:"members"`
}

type inviteResponse struct {
	ID          string `json:"id"`
	HouseholdID string `json:"household_id"`
	InvitedBy   string `json:"invited_by"`
	Status      string `json:"status"`
}

type transactionResponse struct {
	ID       string `json:"id"`
	Date     string `json:"date"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/households", "", nil)
	expectStatus(t, resp, body, http.StatusUnauthorized)

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/auth/me", "alice", nil)
	expectStatus(t, resp, body, http.StatusOK)
	var me struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	decode(t, body, &me)
	if me.ID != users["alice"] || me.Email != "alice@example.com" {
		t.Fatalf("unexpected auth/me: %+v", me)
	}
}

func TestE2EInviteFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	// Profiles are only searchable after the user has signed in once.
	for _, token := range []string{"alice", "bob", "carol"} {
		resp, body := requestJSON(t, client, http.MethodGet, base+"/auth/me", token, nil)
		expectStatus(t, resp, body, http.StatusOK)
	}

	resp, body := requestJSON(t, client, http.MethodPost, base+"/households", "alice", map[string]string{"name": "The Smiths"})
	expectStatus(t, resp, body, http.StatusCreated)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, body, &created)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/households/"+created.ID+"/invites", "alice", map[string]string{"email": "nobody@example.com"})
	expectStatus(t, resp, body, http.StatusNotFound)
	var envelope errorEnvelope
	decode(t, body, &envelope)
	if envelope.Error.Code != "user_not_found" {
		t.Fatalf("expected user_not_found, got %q", envelope.Error.Code)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/households/"+created.ID+"/invites", "carol", map[string]string{"email": "bob@example.com"})
	expectStatus(t, resp, body, http.StatusForbidden)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/households/"+created.ID+"/invites", "alice", map[string]string{"email": " Bob@Example.com "})
	expectStatus(t, resp, body, http.StatusCreated)
	var invite inviteResponse
	decode(t, body, &invite)
	if invite.Status != "pending" || invite.InvitedBy != "alice@example.com" {
		t.Fatalf("unexpected invite: %+v", invite)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/invites", "bob", nil)
	expectStatus(t, resp, body, http.StatusOK)
	var pending struct {
		Items []inviteResponse `json:"items"`
	}
	decode(t, body, &pending)
	if len(pending.Items) != 1 || pending.Items[0].ID != invite.ID {
		t.Fatalf("expected bob to see one invite, got %+v", pending.Items)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invites/"+invite.ID+"/accept", "carol", map[string]string{"household_id": created.ID})
	expectStatus(t, resp, body, http.StatusNotFound)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invites/"+invite.ID+"/accept", "bob", map[string]string{"household_id": created.ID})
	expectStatus(t, resp, body, http.StatusNoContent)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invites/"+invite.ID+"/accept", "bob", map[string]string{"household_id": created.ID})
	expectStatus(t, resp, body, http.StatusNoContent)

	resp, body = requestJSON(t, client, http.MethodGet, base+"/households", "bob", nil)
	expectStatus(t, resp, body, http.StatusOK)
	var list struct {
		Items []householdResponse `json:"items"`
	}
	decode(t, body, &list)
	if len(list.Items) != 1 || list.Items[0].ID != created.ID || len(list.Items[0].Members) != 2 {
		t.Fatalf("unexpected households for bob: %+v", list.Items)
	}

	resp, body = requestJSON(t, client, http.MethodGet, base+"/invites", "bob", nil)
	expectStatus(t, resp, body, http.StatusOK)
	decode(t, body, &pending)
	if len(pending.Items) != 0 {
		t.Fatalf("expected no pending invites, got %+v", pending.Items)
	}

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invites/"+invite.ID+"/decline", "bob", nil)
	expectStatus(t, resp, body, http.StatusConflict)
}

func TestE2EDeclineThenAccept(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	for _, token := range []string{"alice", "carol"} {
		resp, body := requestJSON(t, client, http.MethodGet, base+"/auth/me", token, nil)
		expectStatus(t, resp, body, http.StatusOK)
	}

	resp, body := requestJSON(t, client, http.MethodPost, base+"/households", "alice", map[string]string{"name": "Flat 4B"})
	expectStatus(t, resp, body, http.StatusCreated)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, body, &created)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/households/"+created.ID+"/invites", "alice", map[string]string{"email": "carol@example.com"})
	expectStatus(t, resp, body, http.StatusCreated)
	var invite inviteResponse
	decode(t, body, &invite)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invites/"+invite.ID+"/decline", "carol", nil)
	expectStatus(t, resp, body, http.StatusNoContent)

	resp, body = requestJSON(t, client, http.MethodPost, base+"/invites/"+invite.ID+"/accept", "carol", nil)
	expectStatus(t, resp, body, http.StatusConflict)

	resp, body = requestJSON(t, client, http.MethodGet, base+"/households/"+created.ID+"/transactions", "carol", nil)
	expectStatus(t, resp, body, http.StatusForbidden)
}

func TestE2ELedgerFlow(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	base := env.server.URL + "/api"

	resp, body := requestJSON(t, client, http.MethodPost, base+"/households", "alice", map[string]string{"name": "Budget Test"})
	expectStatus(t, resp, body, http.StatusCreated)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, body, &created)
	household := base + "/households/" + created.ID

	resp, body = requestJSON(t, client, http.MethodPost, household+"/transactions", "alice", map[string]interface{}{
		"date": "2024-03-05", "description": "Groceries, weekly", "amount": "42.5", "type": "expense", "category": "groceries",
	})
	expectStatus(t, resp, body, http.StatusCreated)
	var tx transactionResponse
	decode(t, body, &tx)
	if tx.Amount != "42.50" || tx.Category != "Groceries" {
		t.Fatalf("unexpected transaction: %+v", tx)
	}

	resp, body = requestJSON(t, client, http.MethodPost, household+"/transactions", "alice", map[string]interface{}{
		"date": "2024-03-01", "description": "March salary", "amount": 3000, "type": "income", "category": "Salary",
	})
	expectStatus(t, resp, body, http.StatusCreated)

	resp, body = requestJSON(t, client, http.MethodPut, household+"/budgets/Groceries", "alice", map[string]interface{}{"amount": 400})
	expectStatus(t, resp, body, http.StatusOK)
	resp, body = requestJSON(t, client, http.MethodPut, household+"/budgets/Groceries", "alice", map[string]interface{}{"amount": 250})
	expectStatus(t, resp, body, http.StatusOK)
	resp, body = requestJSON(t, client, http.MethodPut, household+"/budgets/Salary", "alice", map[string]interface{}{"amount": 250})
	expectStatus(t, resp, body, http.StatusBadRequest)

	resp, body = requestJSON(t, client, http.MethodGet, household+"/transactions?from=2024-03-01&to=2024-03-31&type=expense", "alice", nil)
	expectStatus(t, resp, body, http.StatusOK)
	var list struct {
		Items []transactionResponse `json:"items"`
		Total int64                 `json:"total"`
	}
	decode(t, body, &list)
	if list.Total != 1 || len(list.Items) != 1 || list.Items[0].ID != tx.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	resp, body = requestJSON(t, client, http.MethodGet, household+"/analytics/dashboard?from=2024-03-01&to=2024-03-31", "alice", nil)
	expectStatus(t, resp, body, http.StatusOK)
	var dashboard struct {
		Summary struct {
			Income  string `json:"income"`
			Expense string `json:"expense"`
			Count   int64  `json:"count"`
		} `json:"summary"`
		Budgets []struct {
			Category string `json:"category"`
			Budget   string `json:"budget"`
		} `json:"budgets"`
	}
	decode(t, body, &dashboard)
	if dashboard.Summary.Count != 2 || dashboard.Summary.Income != "3000" || dashboard.Summary.Expense != "42.5" {
		t.Fatalf("unexpected summary: %+v", dashboard.Summary)
	}
	if len(dashboard.Budgets) != 1 || dashboard.Budgets[0].Budget != "250" {
		t.Fatalf("unexpected budgets: %+v", dashboard.Budgets)
	}

	resp, body = requestJSON(t, client, http.MethodGet, household+"/transactions/export.csv", "alice", nil)
	expectStatus(t, resp, body, http.StatusOK)
	want := "date,description,amount,type,category\n" +
		"2024-03-05,\"Groceries, weekly\",42.50,expense,Groceries\n" +
		"2024-03-01,March salary,3000.00,income,Salary\n"
	if string(body) != want {
		t.Fatalf("unexpected csv:\n%s", string(body))
	}

	resp, body = requestJSON(t, client, http.MethodDelete, household+"/transactions/"+tx.ID, "alice", nil)
	expectStatus(t, resp, body, http.StatusNoContent)
	resp, body = requestJSON(t, client, http.MethodDelete, household+"/transactions/"+tx.ID, "alice", nil)
	expectStatus(t, resp, body, http.StatusNotFound)
}
