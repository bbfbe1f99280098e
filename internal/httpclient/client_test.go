package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, `{"data": []}`)
	}))
	defer server.Close()

	client := NewDefaultClient()

	resp, err := client.Send(context.Background(), &Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Headers: map[string]string{
			"Authorization": "token secret",
			"Content-Type":  "application/vnd.api+json",
		},
		Body: []byte(`{}`),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"data": []}`, string(resp.Body))
}

func TestSendTypedErrorOnNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errors": [{"status": "404"}]}`)
	}))
	defer server.Close()

	client := NewDefaultClient()

	_, err := client.Send(context.Background(), &Request{Method: http.MethodGet, URL: server.URL})
	require.Error(t, err)

	httpErr, ok := IsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Contains(t, string(httpErr.Response), "404")
}
