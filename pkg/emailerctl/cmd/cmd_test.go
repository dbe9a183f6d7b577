package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragmaplatform/aws-iam-access-key-auto-rotation/pkg/dispatch"
)

func runCommand(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCommand(Config{OutputWriter: out, DefaultServer: server})
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(out)
	err := root.Execute()
	return out.String(), err
}

func writeEventFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "event.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseCommandWrappedEvent(t *testing.T) {
	path := writeEventFile(t, `{
		"Records": [{"Sns": {"Subject": "Config Rule - Wide Open SG Rule Detected", "Message": "Account: 111122223333"}}]
	}`)

	out, err := runCommand(t, "", "parse", path)

	require.NoError(t, err)

	var parsed parsedEvent
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "wrapped", parsed.Shape)
	assert.Equal(t, "111122223333", parsed.AccountID)
	assert.Equal(t, "Config Rule - Wide Open SG Rule Detected", parsed.Subject)
}

func TestParseCommandNativeEvent(t *testing.T) {
	path := writeEventFile(t, `{"account": "444455556666", "detail-type": "New AWS IAM Access Key Pair Created"}`)

	out, err := runCommand(t, "", "parse", path)

	require.NoError(t, err)

	var parsed parsedEvent
	require.NoError(t, json.Unmarshal([]byte(out), &parsed))
	assert.Equal(t, "native", parsed.Shape)
	assert.Equal(t, "444455556666", parsed.AccountID)
}

func TestParseCommandUnknownShape(t *testing.T) {
	path := writeEventFile(t, `{"unrelated": true}`)

	_, err := runCommand(t, "", "parse", path)

	assert.ErrorContains(t, err, "no known envelope shape")
}

func TestParseCommandMissingFile(t *testing.T) {
	_, err := runCommand(t, "", "parse", filepath.Join(t.TempDir(), "nope.json"))

	assert.ErrorContains(t, err, "reading event file")
}

func TestSendCommand(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/notify", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		received = body
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(dispatch.Response{StatusCode: 200, Body: dispatch.BodySent})
	}))
	defer server.Close()

	path := writeEventFile(t, `{"account": "444455556666", "detail-type": "New AWS IAM Access Key Pair Created"}`)

	out, err := runCommand(t, server.URL, "send", path)

	require.NoError(t, err)
	assert.Contains(t, out, dispatch.BodySent)
	assert.Contains(t, string(received), "444455556666")
}

func TestSendCommandServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no known envelope shape", http.StatusInternalServerError)
	}))
	defer server.Close()

	path := writeEventFile(t, `{"unrelated": true}`)

	_, err := runCommand(t, server.URL, "send", path)

	assert.ErrorContains(t, err, "rejected event")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "", "version")

	require.NoError(t, err)
	assert.Contains(t, out, "dev")
}
