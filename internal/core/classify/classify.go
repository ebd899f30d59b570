// Package classify sorts accepted posts into commands, signal posts and plain posts
package classify

import (
	"strings"

	"jakebot/internal/core/posts"
	str "jakebot/internal/platform/strings"
)

// Kind is the classification outcome
type Kind uint8

const (
	// KindPlain posts are dropped
	KindPlain Kind = iota
	// KindSignal posts carry a marker and ask to be proxied
	KindSignal
	// KindCommand posts are directives for the dispatcher
	KindCommand
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindCommand:
		return "command"
	default:
		return "plain"
	}
}

// Result carries the kind and, for KindCommand, the parsed command
type Result struct {
	Kind    Kind
	Command Command
}

// Classifier holds the addressable names and the signal markers
type Classifier struct {
	Names   []string
	Markers []string
}

// New builds a classifier; name is always addressable, aliases add to it
func New(name string, aliases, markers []string) *Classifier {
	return &Classifier{
		Names:   str.Dedupe(append([]string{name}, aliases...)),
		Markers: markers,
	}
}

// Classify applies command detection first, then marker detection
func (c *Classifier) Classify(p posts.Post) Result {
	if cmd, ok := ParseCommand(p.Title, c.Names); ok {
		return Result{Kind: KindCommand, Command: cmd}
	}
	if str.ContainsAny(p.Title, c.Markers) || str.ContainsAny(p.Body, c.Markers) {
		return Result{Kind: KindSignal}
	}
	return Result{Kind: KindPlain}
}

// Clean removes every marker from s and trims the result
func Clean(s string, markers []string) string {
	return strings.TrimSpace(str.RemoveAll(s, markers))
}
