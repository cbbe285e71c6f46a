package httpclient

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Display style tags used by the client when printing to its Display.
const (
	StyleSuccess = "success"
	StyleFailed  = "failed"
	StyleInfo    = "info"
)

// Settings controls timeouts and retries for every request of a Client.
//
// A Settings value is shared by pointer. The retry policy grows Timeout by
// TimeoutIncrement after each transient failure and the growth is kept:
// later requests that share the same Settings start from the larger timeout.
// Use Clone to give a client its own copy.
type Settings struct {
	mu sync.RWMutex

	timeout          time.Duration
	retries          int
	delay            time.Duration
	timeoutIncrement time.Duration

	// Style maps a style tag (success, failed, info) to a space separated
	// list of attributes understood by ConsoleDisplay, e.g. "bold red".
	Style map[string]string

	// NoColor disables colour output in ConsoleDisplay.
	NoColor bool
}

// DefaultSettings returns timeout 20s, 1 attempt, delay 1s and a timeout
// increment of 10s.
func DefaultSettings() *Settings {
	return &Settings{
		timeout:          20 * time.Second,
		retries:          1,
		delay:            1 * time.Second,
		timeoutIncrement: 10 * time.Second,
		Style:            DefaultStyle(),
	}
}

// DefaultStyle returns the default style tags.
func DefaultStyle() map[string]string {
	return map[string]string{
		StyleSuccess: "green",
		StyleFailed:  "bold red",
		StyleInfo:    "yellow bold",
	}
}

// NewSettings returns DefaultSettings modified by opts.
func NewSettings(opts ...SettingsOption) *Settings {
	s := DefaultSettings()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SettingsOption configures a Settings value.
type SettingsOption func(*Settings)

// WithTimeout sets the per-attempt timeout. Zero disables the deadline.
func WithTimeout(d time.Duration) SettingsOption {
	return func(s *Settings) { s.timeout = d }
}

// WithRetries sets the maximum number of attempts.
func WithRetries(n int) SettingsOption {
	return func(s *Settings) { s.retries = n }
}

// WithDelay sets the pause between attempts.
func WithDelay(d time.Duration) SettingsOption {
	return func(s *Settings) { s.delay = d }
}

// WithTimeoutIncrement sets how much the timeout grows after a transient failure.
func WithTimeoutIncrement(d time.Duration) SettingsOption {
	return func(s *Settings) { s.timeoutIncrement = d }
}

// WithStyle overrides individual style tags.
func WithStyle(style map[string]string) SettingsOption {
	return func(s *Settings) {
		for k, v := range style {
			s.Style[k] = v
		}
	}
}

// Timeout returns the current per-attempt timeout.
func (s *Settings) Timeout() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeout
}

// Retries returns the maximum number of attempts.
func (s *Settings) Retries() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.retries
}

// Delay returns the pause between attempts.
func (s *Settings) Delay() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.delay
}

// TimeoutIncrement returns the timeout growth per transient failure.
func (s *Settings) TimeoutIncrement() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeoutIncrement
}

// SetTimeout replaces the current timeout.
func (s *Settings) SetTimeout(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout = d
}

// SetRetries replaces the maximum number of attempts.
func (s *Settings) SetRetries(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retries = n
}

// SetDelay replaces the pause between attempts.
func (s *Settings) SetDelay(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delay = d
}

// SetTimeoutIncrement replaces the timeout growth per transient failure.
func (s *Settings) SetTimeoutIncrement(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeoutIncrement = d
}

// escalate grows the timeout by the increment and returns the new timeout.
func (s *Settings) escalate() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeout += s.timeoutIncrement
	return s.timeout
}

// Clone returns an independent copy of s.
func (s *Settings) Clone() *Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Settings{
		timeout:          s.timeout,
		retries:          s.retries,
		delay:            s.delay,
		timeoutIncrement: s.timeoutIncrement,
		Style:            maps.Clone(s.Style),
		NoColor:          s.NoColor,
	}
}

// String renders the settings for reports.
func (s *Settings) String() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	styles := make([]string, 0, len(s.Style))
	for _, k := range slices.Sorted(maps.Keys(s.Style)) {
		styles = append(styles, k+"="+s.Style[k])
	}

	return fmt.Sprintf(
		"timeout=%s retries=%d delay=%s timeout_increment=%s style={%s}",
		s.timeout, s.retries, s.delay, s.timeoutIncrement, strings.Join(styles, ", "),
	)
}

// settingsFile is the on-disk form of Settings. Durations are whole seconds.
type settingsFile struct {
	Timeout          *int              `yaml:"timeout"`
	Retries          *int              `yaml:"retries"`
	Delay            *int              `yaml:"delay"`
	TimeoutIncrement *int              `yaml:"timeout_increment"`
	Style            map[string]string `yaml:"style"`
	NoColor          bool              `yaml:"no_color"`
}

// LoadSettings reads a YAML settings file. Keys absent from the file keep
// their default value.
//
//	timeout: 5
//	retries: 3
//	delay: 1
//	timeout_increment: 2
//	style:
//	  info: cyan
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes YAML settings. See LoadSettings.
func ParseSettings(data []byte) (*Settings, error) {
	var f settingsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}

	s := DefaultSettings()
	if f.Timeout != nil {
		s.timeout = seconds(*f.Timeout)
	}
	if f.Retries != nil {
		s.retries = *f.Retries
	}
	if f.Delay != nil {
		s.delay = seconds(*f.Delay)
	}
	if f.TimeoutIncrement != nil {
		s.timeoutIncrement = seconds(*f.TimeoutIncrement)
	}
	for k, v := range f.Style {
		s.Style[k] = v
	}
	s.NoColor = f.NoColor

	return s, nil
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
