package restapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cafetec/cafetec-client/config"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientOptions{
		Config: config.APIConfig{BaseURL: srv.URL},
	})
}

func TestDo_ServerMessageVerbatim(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "msg field", body: `{"msg":"credenciales incorrectas"}`, want: "credenciales incorrectas"},
		{name: "error field", body: `{"error":"horario lleno"}`, want: "horario lleno"},
		{name: "message field", body: `{"message":"producto agotado"}`, want: "producto agotado"},
		{name: "msg wins over error", body: `{"msg":"a","error":"b"}`, want: "a"},
		{name: "no message field", body: `{}`, want: "Bad Request"},
		{name: "non-JSON body", body: `<html>oops</html>`, want: "Bad Request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))

			_, err := client.do(context.Background(), http.MethodGet, "/x", "", nil)
			require.Error(t, err)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, tt.want, apiErr.Message)
			assert.Equal(t, tt.want, apiErr.Error())
		})
	}
}

func TestDo_TokenHeader(t *testing.T) {
	var gotToken string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("x-auth-token")
		_, _ = w.Write([]byte(`{}`))
	}))

	_, err := client.do(context.Background(), http.MethodGet, "/x", "tok-123", nil)
	require.NoError(t, err)
	assert.Equal(t, "tok-123", gotToken)

	_, err = client.do(context.Background(), http.MethodGet, "/x", "", nil)
	require.NoError(t, err)
	assert.Empty(t, gotToken, "no token header for anonymous calls")
}

func TestExtractArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "bare array", raw: `[1,2]`, want: `[1,2]`},
		{name: "bare array with leading whitespace", raw: "\n  [1]", want: "\n  [1]"},
		{name: "data envelope", raw: `{"success":true,"data":[1]}`, want: `[1]`},
		{name: "items envelope", raw: `{"items":[2]}`, want: `[2]`},
		{name: "object without list", raw: `{"success":true}`, want: ``},
		{name: "scalar", raw: `42`, want: ``},
		{name: "data is an object", raw: `{"data":{"a":1}}`, want: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractArray([]byte(tt.raw))
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestUnwrapObject(t *testing.T) {
	assert.JSONEq(t, `{"a":1}`, string(unwrapObject([]byte(`{"data":{"a":1}}`))))
	assert.JSONEq(t, `{"a":1}`, string(unwrapObject([]byte(`{"a":1}`))))
	assert.JSONEq(t, `{"data":[1]}`, string(unwrapObject([]byte(`{"data":[1]}`))), "list envelopes are left alone")
}
