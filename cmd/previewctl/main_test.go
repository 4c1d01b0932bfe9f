package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	main "github.com/use-agent/preview/cmd/previewctl"
	"github.com/use-agent/preview/config"
	"github.com/use-agent/preview/models"
	"github.com/use-agent/preview/service"
)

func newMain() *main.Main {
	m := main.NewMain()
	cfg := config.Default()
	cfg.Fetch.ChromeTLS = false
	m.Config = cfg
	return m
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := newMain().Run(context.Background(), []string{"--help"}, &stdout, &stderr)
	require.NoError(t, err)

	for _, cmd := range []string{"get", "version"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := newMain().Run(context.Background(), nil, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_Version(t *testing.T) {
	t.Parallel()

	var stdout, stderr bytes.Buffer
	err := newMain().Run(context.Background(), []string{"version"}, &stdout, &stderr)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "previewctl ")
}

func TestGetCmd(t *testing.T) {
	t.Parallel()

	t.Run("prints content json", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(`<html><head>
<meta property="og:title" content="CLI page">
<link rel="shortcut icon" href="/favicon.ico">
</head></html>`))
		}))
		defer server.Close()

		var stdout, stderr bytes.Buffer
		err := newMain().Run(context.Background(), []string{"get", server.URL + "/page", "-t", "2s"}, &stdout, &stderr)
		require.NoError(t, err)

		var content models.Content
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &content))
		require.NotNil(t, content.Title)
		assert.Equal(t, "CLI page", *content.Title)
		require.NotNil(t, content.Icon)
		assert.Equal(t, server.URL+"/favicon.ico", *content.Icon)
		assert.Nil(t, content.Image)
	})

	t.Run("returns status error for invalid url", func(t *testing.T) {
		t.Parallel()

		var stdout, stderr bytes.Buffer
		err := newMain().Run(context.Background(), []string{"get", "example.com"}, &stdout, &stderr)

		var status *service.StatusError
		require.ErrorAs(t, err, &status)
		assert.Equal(t, service.CodeInvalidArgument, status.Code)
		assert.Empty(t, stdout.String())
	})
}
