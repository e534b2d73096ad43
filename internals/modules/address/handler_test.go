package address

import (
	"encoding/json"
	"healthwatch/config"
	middle "healthwatch/internals/middleware"
	"healthwatch/internals/security"
	"healthwatch/pkg/utils"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	*fixture
	server *httptest.Server
	tokens *security.TokenService
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := newFixture(t)
	tokens := security.NewTokenService(&config.AuthConfig{Secret: "test-secret", ExpiryMin: 5})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Mount("/addresses", Routes(NewHandler(f.svc, utils.NewValidator()), middle.NewAuthMiddleware(tokens)))

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &apiFixture{fixture: f, server: srv, tokens: tokens}
}

func (a *apiFixture) do(t *testing.T, method, path string, owner uuid.UUID, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)

	if owner != uuid.Nil {
		token, err := a.tokens.GenerateAccessToken(owner, "owner@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHandler_CreateAndGet(t *testing.T) {
	a := newAPIFixture(t)
	owner := uuid.New()
	a.owners[owner] = true

	resp := a.do(t, http.MethodPost, "/addresses", owner, `{"address":"https://example.com","interval_minutes":5}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[utils.SuccessResponse[AddressView]](t, resp)
	assert.True(t, created.Success)
	assert.NotEmpty(t, created.RequestID)
	assert.Equal(t, StatusUp, created.Data.LastStatus)

	resp = a.do(t, http.MethodGet, "/addresses/"+created.Data.ID.String(), owner, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	got := decode[utils.SuccessResponse[AddressView]](t, resp)
	assert.Equal(t, created.Data, got.Data)

	resp = a.do(t, http.MethodGet, "/addresses", owner, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[utils.SuccessResponse[ListAddressesResponse]](t, resp)
	assert.Len(t, list.Data.Addresses, 1)
}

func TestHandler_CreateValidation(t *testing.T) {
	a := newAPIFixture(t)
	owner := uuid.New()
	a.owners[owner] = true

	resp := a.do(t, http.MethodPost, "/addresses", owner, `{"address":"https://example.com","interval_minutes":0}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode[utils.ErrorResponse](t, resp)
	assert.Contains(t, body.Error.Fields, "interval_minutes")

	resp = a.do(t, http.MethodPost, "/addresses", owner, `{"address":"ftp://example.com","interval_minutes":5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = a.do(t, http.MethodPost, "/addresses", owner, `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandler_RequiresToken(t *testing.T) {
	a := newAPIFixture(t)

	resp := a.do(t, http.MethodGet, "/addresses", uuid.Nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandler_OtherOwnerIsForbidden(t *testing.T) {
	a := newAPIFixture(t)
	m := a.seed(t, uuid.New(), "https://example.com", 5)
	intruder := uuid.New()

	resp := a.do(t, http.MethodGet, "/addresses/"+m.ID.String(), intruder, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodPut, "/addresses/"+m.ID.String(), intruder, `{"address":"https://evil.example","interval_minutes":5}`)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = a.do(t, http.MethodDelete, "/addresses/"+m.ID.String(), intruder, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	_, ok := a.store.get(m.ID)
	assert.True(t, ok)
}

func TestHandler_UpdateAndDelete(t *testing.T) {
	a := newAPIFixture(t)
	owner := uuid.New()
	m := a.seed(t, owner, "https://example.com", 5)

	resp := a.do(t, http.MethodPut, "/addresses/"+m.ID.String(), owner, `{"address":"https://example.org","interval_minutes":30}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[utils.SuccessResponse[AddressView]](t, resp)
	assert.Equal(t, "https://example.org", updated.Data.Address)
	assert.Equal(t, 30, updated.Data.IntervalMinutes)

	resp = a.do(t, http.MethodDelete, "/addresses/"+m.ID.String(), owner, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodDelete, "/addresses/"+m.ID.String(), owner, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, http.MethodGet, "/addresses/"+m.ID.String(), owner, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHandler_BadID(t *testing.T) {
	a := newAPIFixture(t)

	resp := a.do(t, http.MethodGet, "/addresses/not-a-uuid", uuid.New(), "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
