package command

import (
	"strings"
	"testing"

	"github.com/eslym/phantoman/pkg/config"
	"github.com/kballard/go-shellquote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlagsIgnoreUnknownKeys(t *testing.T) {
	cfg := config.New(
		config.Entry{Key: "path", Value: "/usr/bin/phantomjs"},
		config.Entry{Key: "debug", Value: true},
		config.Entry{Key: "suites", Value: []any{"acceptance"}},
		config.Entry{Key: "somethingElse", Value: "x"},
	)
	flags := NewMapper().Flags(cfg)
	assert.Empty(t, flags)
}

func TestFlagsRenderBooleansAsWords(t *testing.T) {
	cfg := config.New(
		config.Entry{Key: "webSecurity", Value: false},
		config.Entry{Key: "ignoreSslErrors", Value: true},
		config.Entry{Key: "loadImages", Value: false},
		config.Entry{Key: "localToRemoteUrlAccess", Value: true},
		config.Entry{Key: "diskCache", Value: true},
		config.Entry{Key: "remoteDebuggerAutorun", Value: false},
	)
	flags := NewMapper().Flags(cfg)
	require.Len(t, flags, 6)
	for _, flag := range flags {
		_, value, ok := strings.Cut(flag, "=")
		require.True(t, ok, flag)
		assert.Contains(t, []string{"true", "false"}, value, flag)
	}
	assert.Equal(t, "--web-security=false", flags[0])
	assert.Equal(t, "--ignore-ssl-errors=true", flags[1])
}

func TestFlagsFollowConfigOrder(t *testing.T) {
	cfg := config.New(
		config.Entry{Key: "proxy", Value: "127.0.0.1:3128"},
		config.Entry{Key: "port", Value: 4444},
		config.Entry{Key: "unknown", Value: 1},
		config.Entry{Key: "proxyType", Value: "http"},
		config.Entry{Key: "maxDiskCacheSize", Value: 1024},
		config.Entry{Key: "webdriverLoglevel", Value: "DEBUG"},
		config.Entry{Key: "proxyAuth", Value: nil},
	)
	assert.Equal(t, []string{
		"--proxy=127.0.0.1:3128",
		"--webdriver=4444",
		"--proxy-type=http",
		"--max-disk-cache-size=1024",
		"--webdriver-loglevel=DEBUG",
	}, NewMapper().Flags(cfg))
}

func TestFlagTableIsComplete(t *testing.T) {
	assert.Len(t, flagMapping, 21)
	for key, flag := range flagMapping {
		assert.True(t, strings.HasPrefix(flag, "--"), key)
	}
}

func TestBuildUnix(t *testing.T) {
	cfg := config.New(
		config.Entry{Key: "path", Value: "/opt/phantomjs/bin/phantomjs"},
		config.Entry{Key: "debug", Value: false},
		config.Entry{Key: "port", Value: 4444},
	)
	cmd, err := NewBuilderFor(nil, "linux").Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, "exec /opt/phantomjs/bin/phantomjs --webdriver=4444", cmd)
}

func TestBuildDarwinIsNotWindows(t *testing.T) {
	cfg := config.New(config.Entry{Key: "path", Value: "/usr/local/bin/phantomjs"})
	cmd, err := NewBuilderFor(nil, "darwin").Build(cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cmd, "exec "))
}

func TestBuildWindows(t *testing.T) {
	cfg := config.New(
		config.Entry{Key: "path", Value: `C:\tools\phantomjs`},
		config.Entry{Key: "port", Value: 4444},
	)
	for _, platform := range []string{"windows", "WINNT", "Windows"} {
		cmd, err := NewBuilderFor(nil, platform).Build(cfg)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(cmd, "exec"), platform)
	}
}

func TestBuildNativeWindowsBinaryOnUnix(t *testing.T) {
	cfg := config.New(config.Entry{Key: "path", Value: "/mnt/c/tools/phantomjs.exe"})
	cmd, err := NewBuilderFor(nil, "linux").Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/mnt/c/tools/phantomjs.exe", cmd)
}

func TestBuildEscapesPathAndValues(t *testing.T) {
	cfg := config.New(
		config.Entry{Key: "path", Value: "/opt/my tools/phantomjs"},
		config.Entry{Key: "cookiesFile", Value: "/tmp/cookie jar.txt"},
		config.Entry{Key: "port", Value: 4444},
	)
	cmd, err := NewBuilderFor(nil, "linux").Build(cfg)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(cmd, "exec '/opt/my tools/phantomjs' "), cmd)

	words, err := shellquote.Split(cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"exec",
		"/opt/my tools/phantomjs",
		"--cookies-file=/tmp/cookie jar.txt",
		"--webdriver=4444",
	}, words)
}

func TestBuildWindowsPathRoundTrips(t *testing.T) {
	cfg := config.New(config.Entry{Key: "path", Value: `C:\Program Files\phantomjs.exe`})
	cmd, err := NewBuilderFor(nil, "windows").Build(cfg)
	require.NoError(t, err)
	words, err := shellquote.Split(cmd)
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\Program Files\phantomjs.exe`}, words)
}

func TestBuildMissingPath(t *testing.T) {
	_, err := NewBuilder(nil).Build(config.New(config.Entry{Key: "port", Value: 4444}))
	assert.ErrorIs(t, err, ErrMissingPath)
}

func TestBuildIsDeterministic(t *testing.T) {
	cfg := config.New(
		config.Entry{Key: "path", Value: "/bin/phantomjs"},
		config.Entry{Key: "loadImages", Value: true},
		config.Entry{Key: "port", Value: 4444},
	)
	b := NewBuilderFor(NewMapper(), "linux")
	first, err := b.Build(cfg)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := b.Build(cfg)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

type stubMapper []string

func (s stubMapper) Flags(*config.Config) []string { return s }

func TestBuilderUsesMapper(t *testing.T) {
	cfg := config.New(config.Entry{Key: "path", Value: "/bin/phantomjs"})
	spec, err := NewBuilderFor(stubMapper{"--a=1", "--b=2"}, "linux").Spec(cfg)
	require.NoError(t, err)
	assert.Equal(t, LaunchSpec{Path: "/bin/phantomjs", Flags: []string{"--a=1", "--b=2"}, Prefix: true}, spec)
	assert.Equal(t, "exec /bin/phantomjs --a=1 --b=2", spec.String())
}
