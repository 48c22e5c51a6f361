package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmdProdFlag(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantProd bool
		wantBase string
	}{
		{"development", nil, false, "webpage"},
		{"production", []string{"--prod"}, true, "https://blog.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cwd := inTempDir(t)
			t.Setenv("BASE_URL", "https://blog.example.com")

			var got *SiteConf
			cmd := newRootCmd(func(ctx context.Context, conf *SiteConf) error {
				got = conf
				return nil
			})
			cmd.SetArgs(tt.args)
			require.NoError(t, cmd.Execute())

			require.NotNil(t, got)
			assert.Equal(t, tt.wantProd, got.Prod)
			if tt.wantProd {
				assert.Equal(t, tt.wantBase, got.BaseUrl)
			} else {
				assert.Equal(t, filepath.Join(cwd, tt.wantBase), got.BaseUrl)
			}
		})
	}
}

func TestRootCmdRejectsArgs(t *testing.T) {
	inTempDir(t)
	called := false
	cmd := newRootCmd(func(ctx context.Context, conf *SiteConf) error {
		called = true
		return nil
	})
	cmd.SetArgs([]string{"--prod", "extra"})

	assert.Error(t, cmd.Execute())
	assert.False(t, called)
}

func TestRootCmdReturnsServeError(t *testing.T) {
	inTempDir(t)
	boom := errors.New("boom")
	cmd := newRootCmd(func(ctx context.Context, conf *SiteConf) error { return boom })
	cmd.SetArgs(nil)

	assert.ErrorIs(t, cmd.Execute(), boom)
}

func TestRootCmdRejectsBadConfig(t *testing.T) {
	inTempDir(t)
	t.Setenv("MARKDOWN", "pandoc")
	cmd := newRootCmd(func(ctx context.Context, conf *SiteConf) error { return nil })
	cmd.SetArgs(nil)

	assert.Error(t, cmd.Execute())
}

func TestServeStopsOnCancel(t *testing.T) {
	conf := newTestConf(t, false)
	writePost(t, conf, "hello.md", "## Hello\n01-02-2024\n\nBody.\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, serve(ctx, conf))
	assert.FileExists(t, filepath.Join(conf.WebpageDir, "hello.html"))
}

func TestServeReturnsRebuildError(t *testing.T) {
	conf := newTestConf(t, false)
	conf.Markdown = "pandoc"

	assert.Error(t, serve(context.Background(), conf))
}
