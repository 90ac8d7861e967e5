package handlers

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"

	"cashbook/internal/auth"
	"cashbook/internal/models"
	"cashbook/internal/store"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

func TestRegisterSuccess(t *testing.T) {
	var createdUser models.User
	profiles := 0
	var actions []string
	runner := newTestTxRunner(t)
	handler := newTestHandler(runner, stubUserStore{
		createFn: func(_ context.Context, tx store.Execer, user models.User) error {
			if tx == nil {
				t.Fatalf("user must be created inside the transaction")
			}
			createdUser = user
			return nil
		},
	}, stubProfileStore{
		createFn: func(_ context.Context, _ store.Execer, userID string) error {
			if userID != createdUser.ID {
				t.Fatalf("profile for unexpected user %s", userID)
			}
			profiles++
			return nil
		},
	}, stubAuditStore{
		logFn: func(_ context.Context, _ store.Execer, _, action, _, _, _ string) error {
			actions = append(actions, action)
			return nil
		},
	}, stubLedger{}, stubReports{}, stubProcessor{}, nil)

	rr := doRequest(t, handler, http.MethodPost, "/auth/register", `{"email":" asha@example.com ","display_name":"Asha","password":"pass12345"}`, "")
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var payload tokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	claims, err := auth.ParseToken("secret", payload.Token)
	if err != nil || claims.UserID != createdUser.ID {
		t.Fatalf("token does not identify the new user: %v", err)
	}
	if createdUser.Email != "asha@example.com" || createdUser.DisplayName != "Asha" {
		t.Fatalf("unexpected user: %#v", createdUser)
	}
	if !auth.CheckPassword(createdUser.PasswordHash, "pass12345") {
		t.Fatal("password was not hashed with bcrypt")
	}
	if strings.Contains(rr.Body.String(), createdUser.PasswordHash) {
		t.Fatal("password hash leaked in response")
	}
	if profiles != 1 || len(actions) != 1 || actions[0] != "register" {
		t.Fatalf("unexpected side effects: profiles=%d actions=%v", profiles, actions)
	}
}

func TestRegisterValidation(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(context.Context, store.Execer, models.User) error {
			t.Fatalf("store should not be called")
			return nil
		},
	}, stubProfileStore{}, stubAuditStore{}, stubLedger{}, stubReports{}, stubProcessor{}, nil)

	cases := []string{
		`{"email":"not-an-email","display_name":"Asha","password":"pass12345"}`,
		`{"email":"asha@example.com","display_name":"","password":"pass12345"}`,
		`{"email":"asha@example.com","display_name":"Asha","password":"short"}`,
		`{"email":"asha@example.com","display_name":"Asha","password":"pass12345","role":"admin"}`,
		`not json`,
	}
	for _, body := range cases {
		rr := doRequest(t, handler, http.MethodPost, "/auth/register", body, "")
		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rr.Code)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		createFn: func(context.Context, store.Execer, models.User) error {
			return &pq.Error{Code: "23505"}
		},
	}, stubProfileStore{}, stubAuditStore{}, stubLedger{}, stubReports{}, stubProcessor{}, nil)

	rr := doRequest(t, handler, http.MethodPost, "/auth/register", `{"email":"asha@example.com","display_name":"Asha","password":"pass12345"}`, "")
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestLoginSuccess(t *testing.T) {
	passwordHash, err := auth.HashPassword("pass12345")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			if email != "asha@example.com" {
				t.Fatalf("unexpected email %q", email)
			}
			return models.User{ID: "user-1", Email: email, PasswordHash: passwordHash}, nil
		},
	}, stubProfileStore{}, stubAuditStore{}, stubLedger{}, stubReports{}, stubProcessor{}, nil)

	rr := doRequest(t, handler, http.MethodPost, "/auth/login", `{"email":"asha@example.com","password":"pass12345"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var payload tokenResponse
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Token == "" || payload.User.ID != "user-1" {
		t.Fatalf("unexpected payload: %#v", payload)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	passwordHash, err := auth.HashPassword("pass12345")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByEmailFn: func(_ context.Context, email string) (models.User, error) {
			if email == "missing@example.com" {
				return models.User{}, sql.ErrNoRows
			}
			return models.User{ID: "user-1", PasswordHash: passwordHash}, nil
		},
	}, stubProfileStore{}, stubAuditStore{}, stubLedger{}, stubReports{}, stubProcessor{}, nil)

	for _, body := range []string{
		`{"email":"asha@example.com","password":"wrong-pass"}`,
		`{"email":"missing@example.com","password":"pass12345"}`,
	} {
		rr := doRequest(t, handler, http.MethodPost, "/auth/login", body, "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", body, rr.Code)
		}
	}
}

func TestMe(t *testing.T) {
	handler := newTestHandler(fakeTxRunner{}, stubUserStore{
		getByIDFn: func(_ context.Context, userID string) (models.User, error) {
			return models.User{ID: userID, Email: "asha@example.com", DisplayName: "Asha"}, nil
		},
	}, stubProfileStore{}, stubAuditStore{}, stubLedger{}, stubReports{}, stubProcessor{}, nil)

	rr := doRequest(t, handler, http.MethodGet, "/auth/me", "", "user-1")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"display_name":"Asha"`) {
		t.Fatalf("unexpected body: %s", rr.Body.String())
	}
	if rr := doRequest(t, handler, http.MethodGet, "/auth/me", "", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}
}

func newTestTxRunner(t *testing.T) fakeTxRunner {
	t.Helper()
	name := fmt.Sprintf("noop-%d", atomic.AddUint64(&noopDriverCounter, 1))
	sql.Register(name, noopDriver{})
	dbConn, err := sql.Open(name, "")
	if err != nil {
		t.Fatalf("failed to open noop db: %v", err)
	}
	t.Cleanup(func() { _ = dbConn.Close() })
	xdb := sqlx.NewDb(dbConn, name)
	return fakeTxRunner{
		withTxFn: func(ctx context.Context, fn func(*sqlx.Tx) error) error {
			tx, err := xdb.BeginTxx(ctx, nil)
			if err != nil {
				return err
			}
			if err := fn(tx); err != nil {
				_ = tx.Rollback()
				return err
			}
			return tx.Commit()
		},
	}
}

type noopDriver struct{}

func (d noopDriver) Open(name string) (driver.Conn, error) {
	return &noopConn{}, nil
}

type noopConn struct{}

func (c *noopConn) Prepare(query string) (driver.Stmt, error) {
	return &noopStmt{}, nil
}

func (c *noopConn) Close() error {
	return nil
}

func (c *noopConn) Begin() (driver.Tx, error) {
	return &noopTx{}, nil
}

func (c *noopConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return &noopTx{}, nil
}

type noopStmt struct{}

func (s *noopStmt) Close() error {
	return nil
}

func (s *noopStmt) NumInput() int {
	return -1
}

func (s *noopStmt) Exec(args []driver.Value) (driver.Result, error) {
	return driver.RowsAffected(1), nil
}

func (s *noopStmt) Query(args []driver.Value) (driver.Rows, error) {
	return nil, fmt.Errorf("noop driver does not query")
}

type noopTx struct{}

func (t *noopTx) Commit() error {
	return nil
}

func (t *noopTx) Rollback() error {
	return nil
}

var noopDriverCounter uint64
