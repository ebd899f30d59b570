package classify_test

import (
	"testing"

	"jakebot/internal/core/classify"
	"jakebot/internal/core/posts"
)

var markers = []string{"\U0001F428", "[", "]"}

func TestParseCommandVocabulary(t *testing.T) {
	names := []string{"Jake"}
	cases := []struct {
		title string
		want  string
	}{
		{"{Jake: BOT ON}", "BOT ON"},
		{"{jake: bot off}", "BOT OFF"},
		{"  {JAKE:status}  ", "STATUS"},
		{"{Jake: uptime}", "UPTIME"},
		{"{Jake: help}", "HELP"},
		{"{Jake: About}", "ABOUT"},
		{"{Jake: koala}", "KOALA"},
		{"{Jake: test   post}", "TEST POST"},
		{"{Jake: test ping}", "TEST PING"},
		{"{Jake: delete recent}", "DELETE RECENT"},
		{"{Jake: SHUTDOWN}", "SHUTDOWN"},
		{"{Jake: dance}", "DANCE"},
	}
	for _, c := range cases {
		cmd, ok := classify.ParseCommand(c.title, names)
		if !ok {
			t.Fatalf("%q: not a command", c.title)
		}
		if cmd.Name() != c.want {
			t.Fatalf("%q: name %q want %q", c.title, cmd.Name(), c.want)
		}
	}
}

func TestParseCommandVariants(t *testing.T) {
	cmd, _ := classify.ParseCommand("{Jake: BOT ON}", []string{"Jake"})
	if _, ok := cmd.(classify.BotOn); !ok {
		t.Fatalf("want BotOn, got %T", cmd)
	}
	cmd, _ = classify.ParseCommand(" {Jake: wiggle} ", []string{"Jake"})
	u, ok := cmd.(classify.Unknown)
	if !ok || u.Token != "WIGGLE" {
		t.Fatalf("want Unknown WIGGLE, got %#v", cmd)
	}
	if u.Raw() != "{Jake: wiggle}" {
		t.Fatalf("raw = %q", u.Raw())
	}
}

func TestParseCommandRejects(t *testing.T) {
	names := []string{"Jake", "Jakey"}
	for _, title := range []string{
		"{Sam: STATUS}",
		"please {Jake: STATUS}",
		"{Jake: STATUS} now",
		"{Jake:}",
		"{Jake STATUS}",
		"[Jake: STATUS]",
		"",
	} {
		if cmd, ok := classify.ParseCommand(title, names); ok {
			t.Fatalf("%q: unexpected command %v", title, cmd.Name())
		}
	}
}

func TestParseCommandAliasAndFolding(t *testing.T) {
	names := []string{"Jake", "Jakey"}
	for _, title := range []string{"{jakey: status}", "{ＪＡＫＥ: status}", "{ Jake : status }"} {
		if _, ok := classify.ParseCommand(title, names); !ok {
			t.Fatalf("%q should address the bot", title)
		}
	}
}

func TestMatchDirective(t *testing.T) {
	name, tok, ok := classify.MatchDirective("{ Jake :  bot on }")
	if !ok || name != "Jake" || tok != "bot on" {
		t.Fatalf("got %q %q %v", name, tok, ok)
	}
}

func TestClassify(t *testing.T) {
	c := classify.New("Jake", []string{"Jakey"}, markers)
	cases := []struct {
		title, body string
		want        classify.Kind
	}{
		{"[Hello from Jake]", "", classify.KindSignal},
		{"hello", "koala \U0001F428 time", classify.KindSignal},
		{"hello", "world", classify.KindPlain},
		{"{Jake: STATUS}", "", classify.KindCommand},
		{"{Jakey: BOT OFF}", "[x]", classify.KindCommand},
		{"{Sam: STATUS}", "", classify.KindPlain},
	}
	for _, tc := range cases {
		got := c.Classify(posts.Post{Title: tc.title, Body: tc.body})
		if got.Kind != tc.want {
			t.Fatalf("%q/%q: kind %v want %v", tc.title, tc.body, got.Kind, tc.want)
		}
		if (got.Kind == classify.KindCommand) != (got.Command != nil) {
			t.Fatalf("%q: command presence mismatch", tc.title)
		}
	}
}

func TestCommandBeatsSignalMarker(t *testing.T) {
	c := classify.New("Jake", nil, []string{"{", ":"})
	got := c.Classify(posts.Post{Title: "{Jake: HELP}"})
	if got.Kind != classify.KindCommand || got.Command.Name() != "HELP" {
		t.Fatalf("got %+v", got)
	}
}

func TestClean(t *testing.T) {
	if got := classify.Clean("  [Hello from Jake] \U0001F428 ", markers); got != "Hello from Jake" {
		t.Fatalf("Clean = %q", got)
	}
	if got := classify.Clean("[]", markers); got != "" {
		t.Fatalf("Clean = %q", got)
	}
}

func TestKindString(t *testing.T) {
	if classify.KindCommand.String() != "command" || classify.KindSignal.String() != "signal" || classify.KindPlain.String() != "plain" {
		t.Fatal("unexpected kind names")
	}
}
