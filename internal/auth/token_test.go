package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenClientAttachesBearer(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	base := &http.Client{Timeout: 5 * time.Second}
	client := TokenClient(base, "abc123")

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer abc123", got)
	assert.Equal(t, base.Timeout, client.Timeout)
	assert.Nil(t, base.Transport, "base client must not be modified")
}

func TestTokenClientWithoutToken(t *testing.T) {
	base := &http.Client{}
	assert.Same(t, base, TokenClient(base, ""))
}
