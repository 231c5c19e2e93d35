package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newAuthTestServer mimics the server's auth behavior: reads are
// public, writes stop at the auth middleware unless the key matches.
func newAuthTestServer(t *testing.T, validKey string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/health":
			fmt.Fprint(w, `{"status":"ok","version":"test","apiVersion":"v1"}`)
		case r.Method == http.MethodDelete:
			if r.Header.Get("X-API-Key") != validKey {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid or missing API key"}}`)
				return
			}
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":"NOT_FOUND","message":"metadata not found"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"code":"NOT_FOUND","message":"not found"}}`)
		}
	}))
}

func setTestHome(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	return tmpDir
}

func TestAuthLogin(t *testing.T) {
	server := newAuthTestServer(t, "md_key_valid")
	defer server.Close()
	setTestHome(t)

	t.Run("valid key is saved", func(t *testing.T) {
		err := runAuthLogin(server.URL, "md_key_valid", "")
		require.NoError(t, err)
		assert.Equal(t, "md_key_valid", getCredential(server.URL))
	})

	t.Run("invalid key is rejected", func(t *testing.T) {
		err := runAuthLogin(server.URL, "md_key_wrong", "")
		assert.ErrorIs(t, err, errInvalidAPIKey)
	})

	t.Run("default network saved with the key", func(t *testing.T) {
		err := runAuthLogin(server.URL, "md_key_valid", "sepolia")
		require.NoError(t, err)

		cred, ok := lookupCredential(server.URL)
		require.True(t, ok)
		assert.Equal(t, "sepolia", cred.Network)
	})

	t.Run("trailing slash normalized", func(t *testing.T) {
		err := runAuthLogin(server.URL+"/", "md_key_valid", "")
		require.NoError(t, err)

		creds, err := loadCredentials()
		require.NoError(t, err)
		assert.Len(t, creds.Servers, 1)
		assert.Equal(t, "md_key_valid", getCredential(server.URL))
	})

	t.Run("empty key rejected", func(t *testing.T) {
		origStdin := os.Stdin
		defer func() { os.Stdin = origStdin }()

		r, w, _ := os.Pipe()
		w.Close()
		os.Stdin = r

		err := runAuthLogin(server.URL, "", "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "API key cannot be empty")
	})
}

func TestAuthLoginFromStdin(t *testing.T) {
	server := newAuthTestServer(t, "md_key_piped")
	defer server.Close()
	setTestHome(t)

	for _, tc := range []struct {
		name  string
		input string
	}{
		{"plain key", "md_key_piped\n"},
		{"surrounding whitespace trimmed", "  md_key_piped  \n"},
		{"no trailing newline", "md_key_piped"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			origStdin := os.Stdin
			defer func() { os.Stdin = origStdin }()

			r, w, err := os.Pipe()
			require.NoError(t, err)
			go func() {
				defer w.Close()
				io.WriteString(w, tc.input)
			}()
			os.Stdin = r

			require.NoError(t, runAuthLogin(server.URL, "", ""))
			assert.Equal(t, "md_key_piped", getCredential(server.URL))
		})
	}
}

func TestValidateAPIKey(t *testing.T) {
	server := newAuthTestServer(t, "md_key_valid")
	defer server.Close()

	t.Run("valid key", func(t *testing.T) {
		err := validateAPIKey(context.Background(), server.URL, "md_key_valid")
		assert.NoError(t, err)
	})

	t.Run("invalid key", func(t *testing.T) {
		err := validateAPIKey(context.Background(), server.URL, "md_key_wrong")
		assert.ErrorIs(t, err, errInvalidAPIKey)
	})

	t.Run("unreachable server", func(t *testing.T) {
		err := validateAPIKey(context.Background(), "http://127.0.0.1:1", "md_key_valid")
		require.Error(t, err)
		assert.NotErrorIs(t, err, errInvalidAPIKey)
	})
}

func TestAuthLogout(t *testing.T) {
	setTestHome(t)

	require.NoError(t, saveCredential("http://server1:8080", "key1", ""))
	require.NoError(t, saveCredential("http://server2:8080", "key2", "sepolia"))

	t.Run("logout one server", func(t *testing.T) {
		require.NoError(t, runAuthLogout("http://server1:8080", false))
		assert.Equal(t, "", getCredential("http://server1:8080"))
		assert.Equal(t, "key2", getCredential("http://server2:8080"))
	})

	t.Run("logout normalizes the URL", func(t *testing.T) {
		require.NoError(t, runAuthLogout("http://server2:8080/", false))
		assert.Equal(t, "", getCredential("http://server2:8080"))
	})

	t.Run("logout unknown server is a no-op", func(t *testing.T) {
		require.NoError(t, runAuthLogout("http://nonexistent:8080", false))
	})

	t.Run("logout all removes the file", func(t *testing.T) {
		require.NoError(t, saveCredential("http://server1:8080", "key1", ""))
		require.NoError(t, runAuthLogout("", true))

		_, err := os.Stat(credentialsFilePath())
		assert.True(t, os.IsNotExist(err))
	})
}

func TestAuthStatus(t *testing.T) {
	setTestHome(t)

	captureStdout := func(t *testing.T, fn func() error) string {
		t.Helper()
		oldStdout := os.Stdout
		r, w, err := os.Pipe()
		require.NoError(t, err)
		os.Stdout = w

		fnErr := fn()

		w.Close()
		os.Stdout = oldStdout
		require.NoError(t, fnErr)

		var buf bytes.Buffer
		io.Copy(&buf, r)
		return buf.String()
	}

	t.Run("no credentials", func(t *testing.T) {
		out := captureStdout(t, runAuthStatus)
		assert.Contains(t, out, "Not authenticated")
	})

	t.Run("lists servers with masked keys", func(t *testing.T) {
		require.NoError(t, saveCredential("http://test-server:8080", "md_key_0123456789abcdef", "holesky"))

		out := captureStdout(t, runAuthStatus)
		assert.Contains(t, out, "SERVER")
		assert.Contains(t, out, "http://test-server:8080")
		assert.Contains(t, out, "holesky")
		assert.Contains(t, out, "md_key_0...cdef")
		assert.NotContains(t, out, "md_key_0123456789abcdef")
	})
}

func TestDefaultNetworkFromCredential(t *testing.T) {
	setTestHome(t)

	origDir, err := os.Getwd()
	require.NoError(t, err)
	defer os.Chdir(origDir)
	require.NoError(t, os.Chdir(t.TempDir()))

	require.NoError(t, saveCredential("http://cred-server:8080", "key", "base"))
	t.Setenv("MINTDESK_SERVER", "http://cred-server:8080")

	assert.Equal(t, "base", getDefaultNetwork())
}

func TestCredentialFilePermissions(t *testing.T) {
	tmpDir := setTestHome(t)

	require.NoError(t, saveCredential("http://test:8080", "test-key", ""))

	info, err := os.Stat(filepath.Join(tmpDir, ".mintdesk", "credentials"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	dirInfo, err := os.Stat(filepath.Join(tmpDir, ".mintdesk"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())
}

func TestAuthCommandStructure(t *testing.T) {
	cmd := createAuthCmd()

	assert.Equal(t, "auth", cmd.Use)

	names := make([]string, 0)
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Contains(t, names, "login")
	assert.Contains(t, names, "logout")
	assert.Contains(t, names, "status")

	login := createAuthLoginCmd()
	assert.NotNil(t, login.Flags().Lookup("server"))
	assert.NotNil(t, login.Flags().Lookup("api-key"))
	assert.NotNil(t, login.Flags().Lookup("network"))
}
