package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ridemyway/internal/auth"
)

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := auth.NewService(newFakeUserStore(), newTokenService(t))
	srv := httptest.NewServer(auth.NewHandler(svc).Routes())
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHandler_SignUp(t *testing.T) {
	srv := newAuthServer(t)

	resp := postJSON(t, srv.URL+"/signup", auth.SignUpRequest{
		Username: "alice", Password: "pw12345", Email: "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Signed up successfully", body["message"])
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, "alice@example.com", body["email"])
	assert.EqualValues(t, 1, body["id"])
}

func TestHandler_SignUp_Conflict(t *testing.T) {
	srv := newAuthServer(t)

	resp := postJSON(t, srv.URL+"/signup", auth.SignUpRequest{Username: "alice", Password: "pw12345"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = postJSON(t, srv.URL+"/signup", auth.SignUpRequest{Username: "alice", Password: "pw67890"})
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Conflict", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestHandler_SignUp_BadInput(t *testing.T) {
	srv := newAuthServer(t)

	resp := postJSON(t, srv.URL+"/signup", auth.SignUpRequest{Username: "bob", Password: "pw"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Bad Request", decodeBody(t, resp)["error"])
}

func TestHandler_Login(t *testing.T) {
	srv := newAuthServer(t)

	resp := postJSON(t, srv.URL+"/signup", auth.SignUpRequest{Username: "alice", Password: "pw12345"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	t.Run("success", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/login", auth.LoginRequest{Username: "alice", Password: "pw12345"})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "Logged in successfully", body["message"])
		assert.NotEmpty(t, body["access_token"])
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/login", auth.LoginRequest{Username: "alice", Password: "wrongpw"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Unauthorized", decodeBody(t, resp)["error"])
	})

	t.Run("unknown user", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/login", auth.LoginRequest{Username: "nobody", Password: "pw12345"})
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
