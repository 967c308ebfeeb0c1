package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	KeyPath   = "path"
	KeyPort   = "port"
	KeyDebug  = "debug"
	KeySilent = "silent"
	KeySuites = "suites"
	KeyLogDir = "logDir"
)

const (
	DefaultPath   = "vendor/bin/phantomjs"
	DefaultPort   = 4444
	DefaultLogDir = "tests/_output"
)

var ErrInvalidConfig = errors.New("invalid config")
var ErrExecutableNotFound = errors.New("phantomjs executable not found")
var ErrConfigNotFound = errors.New("config file not found")

// Entry is a single key/value pair of a Config.
type Entry struct {
	Key   string
	Value any
}

// Config is an ordered key/value map. Iteration follows insertion order,
// which for loaded files is the order keys appear in the document.
type Config struct {
	entries []Entry
	index   map[string]int
}

func New(entries ...Entry) *Config {
	c := &Config{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		c.Set(e.Key, e.Value)
	}
	return c
}

// Set replaces the value of an existing key in place or appends a new key.
func (c *Config) Set(key string, value any) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[key]; ok {
		c.entries[i].Value = value
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, Entry{Key: key, Value: value})
}

func (c *Config) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	i, ok := c.index[key]
	if !ok {
		return nil, false
	}
	return c.entries[i].Value, true
}

func (c *Config) Has(key string) bool {
	_, ok := c.Get(key)
	return ok
}

func (c *Config) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Entries returns a copy of all entries in order.
func (c *Config) Entries() []Entry {
	if c == nil {
		return nil
	}
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Config) Clone() *Config {
	return New(c.Entries()...)
}

func (c *Config) Path() string {
	v, _ := c.Get(KeyPath)
	s, _ := v.(string)
	return s
}

// Port returns the configured port, or 0 when unset or not an integer.
func (c *Config) Port() int {
	v, _ := c.Get(KeyPort)
	port, _ := intValue(v)
	return port
}

func (c *Config) Debug() bool {
	v, _ := c.Get(KeyDebug)
	b, _ := boolValue(v)
	return b
}

func (c *Config) Silent() bool {
	v, _ := c.Get(KeySilent)
	b, _ := boolValue(v)
	return b
}

func (c *Config) LogDir() string {
	v, _ := c.Get(KeyLogDir)
	s, _ := v.(string)
	return s
}

// Suites returns the suite allow-list. A single string counts as a list of one.
// A nil result means no filtering.
func (c *Config) Suites() []string {
	v, ok := c.Get(KeySuites)
	if !ok {
		return nil
	}
	switch s := v.(type) {
	case string:
		return []string{s}
	case []string:
		return s
	case []any:
		out := make([]string, 0, len(s))
		for _, item := range s {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return nil
	}
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func boolValue(v any) (bool, bool) {
	switch b := v.(type) {
	case bool:
		return b, true
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(b))
		if err != nil {
			return false, false
		}
		return parsed, true
	default:
		return false, false
	}
}
