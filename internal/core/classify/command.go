package classify

import (
	"regexp"
	"strings"

	"jakebot/internal/core/normalize"
)

// Command is a directive addressed to the bot. The set of variants is closed;
// handlers switch on the concrete type and Unknown catches everything else
type Command interface {
	// Raw is the matched directive text, used to find the originating post again
	Raw() string
	// Name is the canonical uppercase token
	Name() string
	isCommand()
}

type base struct{ raw string }

func (b base) Raw() string { return b.raw }
func (base) isCommand()    {}

type (
	// BotOn enables autoproxy
	BotOn struct{ base }
	// BotOff disables autoproxy
	BotOff struct{ base }
	// Status reports state, uptime and markers
	Status struct{ base }
	// Uptime reports time since process start
	Uptime struct{ base }
	// Help lists documented commands
	Help struct{ base }
	// About posts the two introduction entries
	About struct{ base }
	// Koala is undocumented
	Koala struct{ base }
	// TestPost posts a fixed test message
	TestPost struct{ base }
	// TestPing only removes the command post
	TestPing struct{ base }
	// DeleteRecent removes the newest board entry
	DeleteRecent struct{ base }
	// Shutdown says goodbye, persists and stops the process
	Shutdown struct{ base }
	// Unknown is any token outside the vocabulary
	Unknown struct {
		base
		Token string
	}
)

func (BotOn) Name() string        { return "BOT ON" }
func (BotOff) Name() string       { return "BOT OFF" }
func (Status) Name() string       { return "STATUS" }
func (Uptime) Name() string       { return "UPTIME" }
func (Help) Name() string         { return "HELP" }
func (About) Name() string        { return "ABOUT" }
func (Koala) Name() string        { return "KOALA" }
func (TestPost) Name() string     { return "TEST POST" }
func (TestPing) Name() string     { return "TEST PING" }
func (DeleteRecent) Name() string { return "DELETE RECENT" }
func (Shutdown) Name() string     { return "SHUTDOWN" }
func (u Unknown) Name() string    { return u.Token }

var vocabulary = map[string]func(base) Command{
	"BOT ON":        func(b base) Command { return BotOn{b} },
	"BOT OFF":       func(b base) Command { return BotOff{b} },
	"STATUS":        func(b base) Command { return Status{b} },
	"UPTIME":        func(b base) Command { return Uptime{b} },
	"HELP":          func(b base) Command { return Help{b} },
	"ABOUT":         func(b base) Command { return About{b} },
	"KOALA":         func(b base) Command { return Koala{b} },
	"TEST POST":     func(b base) Command { return TestPost{b} },
	"TEST PING":     func(b base) Command { return TestPing{b} },
	"DELETE RECENT": func(b base) Command { return DeleteRecent{b} },
	"SHUTDOWN":      func(b base) Command { return Shutdown{b} },
}

// Documented lists the commands shown by HELP, in display order
var Documented = []string{
	"BOT ON", "BOT OFF", "STATUS", "UPTIME", "HELP", "ABOUT",
	"TEST POST", "TEST PING", "DELETE RECENT", "SHUTDOWN",
}

// MatchDirective is the pure grammar: "{Name: TOKENS}" filling the whole string.
// It returns the addressee and the raw token text
func MatchDirective(s string) (name, tokens string, ok bool) {
	m := reDirective.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

var reDirective = regexp.MustCompile(`^\{\s*([^{}:]+?)\s*:\s*([^{}]*?)\s*\}$`)

// ParseCommand matches title against the directive grammar for any of names.
// Names compare folded; the token is uppercased with inner whitespace collapsed
func ParseCommand(title string, names []string) (Command, bool) {
	who, tokens, ok := MatchDirective(title)
	if !ok || tokens == "" || !addressed(who, names) {
		return nil, false
	}
	tok := strings.ToUpper(strings.Join(strings.Fields(tokens), " "))
	b := base{raw: strings.TrimSpace(title)}
	if mk, ok := vocabulary[tok]; ok {
		return mk(b), true
	}
	return Unknown{base: b, Token: tok}, true
}

func addressed(who string, names []string) bool {
	for _, n := range names {
		if normalize.Equal(who, n) {
			return true
		}
	}
	return false
}
