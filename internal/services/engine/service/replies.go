package service

import (
	"fmt"
	"strings"

	"jakebot/internal/core/classify"
	"jakebot/internal/services/engine/domain"
)

// reply is one board entry the dispatcher wants posted
type reply struct {
	Title string
	Body  string
}

func onOff(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}

func (s *Svc) replyBotOn(changed bool) reply {
	if changed {
		return reply{Title: "Autoproxy turned ON", Body: fmt.Sprintf("%s will repost marked posts again.", s.cfg.Name)}
	}
	return reply{Title: "Autoproxy is already ON", Body: "Nothing changed."}
}

func (s *Svc) replyBotOff(changed bool) reply {
	if changed {
		return reply{Title: "Autoproxy turned OFF", Body: fmt.Sprintf("%s will ignore marked posts until BOT ON.", s.cfg.Name)}
	}
	return reply{Title: "Autoproxy is already OFF", Body: "Nothing changed."}
}

func (s *Svc) replyStatus(st domain.Status) reply {
	var b strings.Builder
	fmt.Fprintf(&b, "Autoproxy: %s\n", onOff(st.Autoproxy))
	fmt.Fprintf(&b, "Uptime: %s\n", st.UptimeHuman)
	fmt.Fprintf(&b, "Signalers: %s", strings.Join(st.Signalers, " "))
	return reply{Title: fmt.Sprintf("%s status", s.cfg.Name), Body: b.String()}
}

func (s *Svc) replyUptime(st domain.Status) reply {
	return reply{Title: fmt.Sprintf("%s uptime", s.cfg.Name), Body: fmt.Sprintf("Up for %s.", st.UptimeHuman)}
}

func (s *Svc) replyHelp() reply {
	var b strings.Builder
	fmt.Fprintf(&b, "Address me as {%s: COMMAND}.\n", s.cfg.Name)
	for i, name := range classify.Documented {
		fmt.Fprintf(&b, "\n%d. %s: %s", i+1, name, helpText[name])
	}
	return reply{Title: fmt.Sprintf("%s commands", s.cfg.Name), Body: b.String()}
}

var helpText = map[string]string{
	"BOT ON":        "repost marked posts without their markers",
	"BOT OFF":       "stop reposting marked posts",
	"STATUS":        "show autoproxy, uptime and markers",
	"UPTIME":        "show how long I have been running",
	"HELP":          "show this list",
	"ABOUT":         "introduce myself",
	"TEST POST":     "post a short test message that cleans itself up",
	"TEST PING":     "remove the command and nothing else",
	"DELETE RECENT": "remove the newest post on the board",
	"SHUTDOWN":      "say goodbye and stop",
}

func (s *Svc) replyAbout() []reply {
	return []reply{
		{Title: fmt.Sprintf("About %s", s.cfg.Name), Body: s.cfg.Bio},
		{
			Title: "What I do",
			Body: fmt.Sprintf("When %s marks a post with %s I repost it as my own, without the markers, and remove the original. "+
				"Commands are written in braces with my name and a colon, and HELP lists them.",
				s.cfg.OriginalAuthor, strings.Join(s.state.Signalers(), " ")),
		},
	}
}

func (s *Svc) replyKoala() reply {
	return reply{
		Title: "A koala story",
		Body: "Once upon a time a small koala lived at the top of the tallest eucalyptus on the hill. " +
			"Every morning it counted the leaves it could reach, and every evening it counted them again, " +
			"because leaves have a way of moving when nobody is watching.\n\n" +
			"One day a cockatoo landed on the branch and asked why it bothered. The koala thought about this for " +
			"most of the afternoon and then said that counting was how it said hello to each leaf.\n\n" +
			"The cockatoo did not understand, but it stayed for dinner, and the next morning it counted too.",
	}
}

func (s *Svc) replyTestPost() reply {
	return reply{Title: "Test post", Body: fmt.Sprintf("This is a test post from %s. It will disappear shortly.", s.cfg.Name)}
}

func (s *Svc) replyShutdown() reply {
	return reply{Title: fmt.Sprintf("%s is signing off", s.cfg.Name), Body: "Goodbye for now!"}
}
