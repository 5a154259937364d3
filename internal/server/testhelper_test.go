package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dansutton/folio/internal/app"
	"github.com/dansutton/folio/internal/common"
	"github.com/dansutton/folio/internal/interfaces"
	"github.com/dansutton/folio/internal/models"
	"github.com/dansutton/folio/internal/services/investment"
)

// In-memory storage fakes for handler tests.

type memStorage struct {
	internal *memInternalStore
	holdings *memHoldingStore
	txs      *memTransactionStore
}

func newMemStorage() *memStorage {
	return &memStorage{
		internal: &memInternalStore{users: map[string]*models.InternalUser{}, kv: map[string]string{}},
		holdings: &memHoldingStore{items: map[string]*models.Holding{}},
		txs:      &memTransactionStore{items: map[string]*models.InvestmentTransaction{}},
	}
}

func (m *memStorage) InternalStore() interfaces.InternalStore       { return m.internal }
func (m *memStorage) HoldingStore() interfaces.HoldingStore         { return m.holdings }
func (m *memStorage) TransactionStore() interfaces.TransactionStore { return m.txs }
func (m *memStorage) Close() error                                  { return nil }

type memInternalStore struct {
	mu    sync.Mutex
	users map[string]*models.InternalUser
	kv    map[string]string
}

func (s *memInternalStore) GetUser(_ context.Context, userID string) (*models.InternalUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, interfaces.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *memInternalStore) GetUserByEmail(_ context.Context, email string) (*models.InternalUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, interfaces.ErrUserNotFound
}

func (s *memInternalStore) SaveUser(_ context.Context, user *models.InternalUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.UserID] = &cp
	return nil
}

func (s *memInternalStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

func (s *memInternalStore) GetSystemKV(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv[key], nil
}

func (s *memInternalStore) SetSystemKV(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[key] = value
	return nil
}

func (s *memInternalStore) Close() error { return nil }

type memHoldingStore struct {
	mu    sync.Mutex
	items map[string]*models.Holding
}

func (s *memHoldingStore) Get(_ context.Context, userID, holdingID string) (*models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.items[holdingID]
	if !ok || h.UserID != userID {
		return nil, interfaces.ErrHoldingNotFound
	}
	cp := *h
	return &cp, nil
}

func (s *memHoldingStore) Put(_ context.Context, holding *models.Holding) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *holding
	s.items[holding.ID] = &cp
	return nil
}

func (s *memHoldingStore) Delete(_ context.Context, userID, holdingID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.items[holdingID]
	if !ok || h.UserID != userID {
		return interfaces.ErrHoldingNotFound
	}
	delete(s.items, holdingID)
	return nil
}

func (s *memHoldingStore) List(_ context.Context, userID string, q interfaces.HoldingQuery) ([]*models.Holding, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*models.Holding
	for _, h := range s.items {
		if h.UserID != userID {
			continue
		}
		if q.AssetClass != "" && string(h.AssetClass) != q.AssetClass {
			continue
		}
		if q.Type != "" && string(h.Type) != q.Type {
			continue
		}
		cp := *h
		out = append(out, &cp)
	}

	switch q.SortBy {
	case "name":
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].CurrentValue() > out[j].CurrentValue() })
	}

	if q.Offset > 0 {
		if q.Offset >= len(out) {
			return nil, nil
		}
		out = out[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(out) {
		out = out[:q.Limit]
	}
	return out, nil
}

type memTransactionStore struct {
	mu    sync.Mutex
	items map[string]*models.InvestmentTransaction
}

func (s *memTransactionStore) Get(_ context.Context, userID, txID string) (*models.InvestmentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[txID]
	if !ok || tx.UserID != userID {
		return nil, interfaces.ErrTransactionNotFound
	}
	cp := *tx
	return &cp, nil
}

func (s *memTransactionStore) Create(_ context.Context, tx *models.InvestmentTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.items[tx.ID] = &cp
	return nil
}

func (s *memTransactionStore) Delete(_ context.Context, userID, txID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx, ok := s.items[txID]
	if !ok || tx.UserID != userID {
		return 0, nil
	}
	delete(s.items, txID)
	return 1, nil
}

func (s *memTransactionStore) ListByHolding(_ context.Context, userID, holdingID string) ([]*models.InvestmentTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.InvestmentTransaction
	for _, tx := range s.items {
		if tx.UserID == userID && tx.HoldingID == holdingID {
			cp := *tx
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (s *memTransactionStore) DeleteByHolding(_ context.Context, userID, holdingID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for id, tx := range s.items {
		if tx.UserID == userID && tx.HoldingID == holdingID {
			delete(s.items, id)
			count++
		}
	}
	return count, nil
}

// newTestServer builds a Server over in-memory storage with one seeded user,
// returning the server, the storage and a valid bearer token for the user.
func newTestServer(t *testing.T) (*Server, *memStorage, string) {
	t.Helper()

	storage := newMemStorage()
	logger := common.NewSilentLogger()
	config := common.NewDefaultConfig()
	config.Server.RateLimit = 0 // tests hammer mutation endpoints

	user := &models.InternalUser{
		UserID:    "alice_1",
		Email:     "alice@example.com",
		Name:      "Alice",
		CreatedAt: time.Now(),
	}
	if err := storage.internal.SaveUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	a := &app.App{
		Config:            config,
		Logger:            logger,
		Storage:           storage,
		InvestmentService: investment.NewService(storage, logger),
		StartupTime:       time.Now(),
	}

	srv := NewServer(a)

	token, err := signJWT(user, &config.Auth)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return srv, storage, token
}

// doRequest executes a request against the server's handler chain.
func doRequest(t *testing.T, srv *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the "data" field of a standard response envelope.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (body: %s)", err, rec.Body.String())
	}
	if v != nil {
		if err := json.Unmarshal(envelope.Data, v); err != nil {
			t.Fatalf("decode data: %v (body: %s)", err, rec.Body.String())
		}
	}
}

// errorCode extracts the "code" field from an error response.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var resp ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v (body: %s)", err, rec.Body.String())
	}
	return resp.Code
}
