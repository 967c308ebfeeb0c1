package command

import (
	"errors"
	"runtime"
	"strings"

	"github.com/eslym/phantoman/pkg/config"
	"github.com/kballard/go-shellquote"
)

var ErrMissingPath = errors.New("executable path not configured")

// LaunchSpec is the executable and its flags, ready to be rendered.
type LaunchSpec struct {
	Path   string
	Flags  []string
	Prefix bool // render with a leading "exec "
}

// String renders the launch command. The path and every flag are shell-escaped.
func (s LaunchSpec) String() string {
	parts := make([]string, 0, len(s.Flags)+2)
	if s.Prefix {
		parts = append(parts, "exec")
	}
	parts = append(parts, shellquote.Join(s.Path))
	for _, flag := range s.Flags {
		parts = append(parts, shellquote.Join(flag))
	}
	return strings.Join(parts, " ")
}

// Builder renders the launch command for a finalized configuration.
type Builder struct {
	mapper   Mapper
	platform string
}

func NewBuilder(mapper Mapper) *Builder {
	return NewBuilderFor(mapper, runtime.GOOS)
}

// NewBuilderFor is NewBuilder for an explicit platform identifier.
func NewBuilderFor(mapper Mapper, platform string) *Builder {
	if mapper == nil {
		mapper = NewMapper()
	}
	return &Builder{mapper: mapper, platform: platform}
}

// Spec builds the LaunchSpec. The path is used as given; resolving it is
// the configurator's job.
func (b *Builder) Spec(cfg *config.Config) (LaunchSpec, error) {
	path := cfg.Path()
	if path == "" {
		return LaunchSpec{}, ErrMissingPath
	}
	return LaunchSpec{
		Path:   path,
		Flags:  b.mapper.Flags(cfg),
		Prefix: b.usesExec(path),
	}, nil
}

func (b *Builder) Build(cfg *config.Config) (string, error) {
	spec, err := b.Spec(cfg)
	if err != nil {
		return "", err
	}
	return spec.String(), nil
}

// usesExec reports whether the command gets the "exec " prefix, which makes
// the spawned server replace the launching shell so its pid is the one reported.
func (b *Builder) usesExec(path string) bool {
	if config.IsWindows(b.platform) {
		return false
	}
	return !strings.HasSuffix(strings.ToLower(path), ".exe")
}
