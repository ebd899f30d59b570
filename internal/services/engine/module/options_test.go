package module

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jakebot/internal/modkit"
	"jakebot/internal/platform/config"
	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/testkit"
	staterepo "jakebot/internal/services/state/repo"
)

const setupJSON = `{
  "padletUrl": "HTTPS://Padlet.com/alex/my-board-x1y2/",
  "originalAuthor": "Alex",
  "mindBuddyEmail": "jake@example.com",
  "mindBuddyPassword": "pw",
  "mindBuddyName": "Jake",
  "signalers": ["🐨", "["],
  "postCheckInterval": 2500,
  "maxProxyAge": 600000
}`

func TestFromConfigSetupFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(setupJSON), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.New().WithFile(path, "JAKEBOT_")
	if err != nil {
		t.Fatalf("WithFile: %v", err)
	}
	t.Setenv("JAKEBOT_BOARD_GATEWAY_URL", "http://gateway:8080")
	t.Setenv("JAKEBOT_MAX_POSTS", "4")

	o := FromConfig(cfg)
	if o.BoardURL != "https://padlet.com/alex/my-board-x1y2" {
		t.Fatalf("BoardURL = %q", o.BoardURL)
	}
	if o.BoardID != "my-board-x1y2" {
		t.Fatalf("BoardID = %q", o.BoardID)
	}
	if o.OriginalAuthor != "Alex" || o.Name != "Jake" {
		t.Fatalf("names = %q %q", o.OriginalAuthor, o.Name)
	}
	if strings.Join(o.Signalers, " ") != "🐨 [" {
		t.Fatalf("Signalers = %v", o.Signalers)
	}
	if o.PollInterval != 2500*time.Millisecond || o.MaxProxyAge != 10*time.Minute {
		t.Fatalf("durations = %v %v", o.PollInterval, o.MaxProxyAge)
	}
	if o.MaxPosts != 4 {
		t.Fatalf("env should win, MaxPosts = %d", o.MaxPosts)
	}
	if o.Board.Email != "jake@example.com" || o.Board.Password != "pw" {
		t.Fatalf("credentials = %+v", o.Board)
	}
	testkit.MustContain(t, o.Bio, "Alex's Mind Buddy")
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestDefaults(t *testing.T) {
	o := FromConfig(config.New())
	if o.PollInterval != 5*time.Second || o.MaxProxyAge != 10*time.Minute || o.MaxPosts != 10 {
		t.Fatalf("defaults = %+v", o)
	}
	if o.Signalers != nil {
		t.Fatalf("unset SIGNALERS should defer to saved state, got %v", o.Signalers)
	}
	if o.Board.Kind != "gateway" || o.IDMode != "synth" || o.ExportFormat != "auto" {
		t.Fatalf("enums = %q %q %q", o.Board.Kind, o.IDMode, o.ExportFormat)
	}
}

func TestValidate(t *testing.T) {
	good := func() Options {
		return Options{
			BoardID:        "b",
			OriginalAuthor: "Alex",
			Name:           "Jake",
			PollInterval:   time.Second,
			MaxProxyAge:    time.Minute,
			MaxPosts:       10,
			CycleBackoff:   time.Second,
			IDMode:         "synth",
			ExportFormat:   "auto",
			Board:          BoardOptions{Kind: "gateway", GatewayURL: "http://gw", Timeout: time.Second},
		}
	}

	cases := []struct {
		name  string
		edit  func(*Options)
		field string
	}{
		{"ok", func(*Options) {}, ""},
		{"missing author", func(o *Options) { o.OriginalAuthor = "" }, "ORIGINAL_AUTHOR"},
		{"name with braces", func(o *Options) { o.Name = "{Jake}" }, "MIND_BUDDY_NAME"},
		{"alias with colon", func(o *Options) { o.Aliases = []string{"J:"} }, "ALIASES[0]"},
		{"zero posts", func(o *Options) { o.MaxPosts = 0 }, "MAX_POSTS"},
		{"fast poll", func(o *Options) { o.PollInterval = time.Millisecond }, "POST_CHECK_INTERVAL"},
		{"gateway without url", func(o *Options) { o.Board.GatewayURL = "" }, "GATEWAY_URL"},
		{"gateway without board", func(o *Options) { o.BoardID = "" }, "BOARD_ID"},
		{"memory without board", func(o *Options) { o.BoardID = ""; o.Board = BoardOptions{Kind: "memory", Timeout: time.Second} }, ""},
		{"bad zone", func(o *Options) { o.TimeZone = "Mars/Olympus" }, "TZ"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := good()
			tc.edit(&o)
			err := o.Validate()
			if tc.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !perr.IsCode(err, perr.ErrorCodeValidation) {
				t.Fatalf("want validation error, got %v", err)
			}
			e, _ := perr.As(err)
			if !strings.HasSuffix(e.Field(), tc.field) {
				t.Fatalf("field = %q, want suffix %q (%v)", e.Field(), tc.field, err)
			}
		})
	}
}

func TestBoardIDFromURL(t *testing.T) {
	cases := map[string]string{
		"https://padlet.com/alex/board-123":     "board-123",
		"https://padlet.com/alex/board-123?x=1": "board-123",
		"https://example.com/alex/board-123":    "",
		"":                                      "",
	}
	for in, want := range cases {
		if got := BoardIDFromURL(in); got != want {
			t.Errorf("BoardIDFromURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewModule(t *testing.T) {
	o := FromConfig(config.New())
	o.Name, o.OriginalAuthor = "Jake", "Alex"
	o.Board.Kind = "memory"

	m, err := New(modkit.Deps{}, o, Collaborators{Store: staterepo.NewFile(filepath.Join(t.TempDir(), "s.json"))})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ports := m.Ports().(Ports)
	if ports.Status.Status().Lifecycle != "running" {
		t.Fatalf("status = %+v", ports.Status.Status())
	}

	o.Name = ""
	if _, err := New(modkit.Deps{}, o, Collaborators{}); err == nil {
		t.Fatal("want validation error")
	}
}
