package module

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"jakebot/internal/core/posts"
	"jakebot/internal/platform/config"
	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/validate"

	"github.com/PuerkitoBio/purell"
)

// Options for the engine module. Tags name the key under JAKEBOT_ so validation
// messages point at what to fix
type Options struct {
	BoardURL       string        `config:"BOARD_URL" validate:"omitempty,url"`
	BoardID        string        `config:"BOARD_ID"`
	OriginalAuthor string        `config:"ORIGINAL_AUTHOR" validate:"required"`
	Name           string        `config:"MIND_BUDDY_NAME" validate:"required,nomarkup"`
	Bio            string        `config:"MIND_BUDDY_BIO"`
	Aliases        []string      `config:"ALIASES" validate:"dive,required,nomarkup"`
	Signalers      []string      `config:"SIGNALERS" validate:"dive,required"`
	PollInterval   time.Duration `config:"POST_CHECK_INTERVAL" validate:"min=100ms"`
	MaxProxyAge    time.Duration `config:"MAX_PROXY_AGE" validate:"min=1s"`
	MaxPosts       int           `config:"MAX_POSTS" validate:"min=1,max=500"`
	CycleBackoff   time.Duration `config:"CYCLE_BACKOFF" validate:"min=100ms"`
	ProxyJitterMax time.Duration `config:"PROXY_JITTER_MAX" validate:"min=0s"`
	TempLinger     time.Duration `config:"TEMP_LINGER" validate:"min=0s"`
	IDMode         string        `config:"ID_MODE" validate:"oneof=synth strong"`
	ExportFormat   string        `config:"EXPORT_FORMAT" validate:"oneof=auto markdown html"`
	TimeZone       string        `config:"TZ"`

	Board BoardOptions `config:"BOARD"`
}

// BoardOptions picks and configures the board adapter
type BoardOptions struct {
	Kind       string        `config:"KIND" validate:"oneof=gateway memory"`
	GatewayURL string        `config:"GATEWAY_URL" validate:"required_if=Kind gateway"`
	Token      string        `config:"TOKEN"`
	Email      string        `config:"MIND_BUDDY_EMAIL" validate:"omitempty,email"`
	Password   string        `config:"MIND_BUDDY_PASSWORD"`
	Timeout    time.Duration `config:"TIMEOUT" validate:"min=1s"`
	Retries    int           `config:"RETRIES" validate:"min=0,max=10"`
}

// FromConfig reads options under JAKEBOT_. Keys written by the setup tool (PADLET_URL, PADLET_ID)
// are accepted as fallbacks so its config file works unchanged
// JAKEBOT_BOARD_URL board page, normalized; the board id is derived from it when BOARD_ID is empty
// JAKEBOT_ORIGINAL_AUTHOR display name whose posts are acted on
// JAKEBOT_MIND_BUDDY_NAME display name of the bot and the addressee in commands
// JAKEBOT_SIGNALERS comma separated markers; empty keeps whatever was saved last
// JAKEBOT_POST_CHECK_INTERVAL (default 5s, plain integers are ms) delay between cycles
// JAKEBOT_MAX_PROXY_AGE (default 10m) freshness window
// JAKEBOT_MAX_POSTS (default 10) posts considered per cycle
func FromConfig(cfg config.Conf) Options {
	n := cfg.Prefix("JAKEBOT_")
	b := n.Prefix("BOARD_")

	o := Options{
		BoardURL:       n.MayString("BOARD_URL", n.MayString("PADLET_URL", "")),
		BoardID:        n.MayString("BOARD_ID", n.MayString("PADLET_ID", "")),
		OriginalAuthor: n.MayString("ORIGINAL_AUTHOR", ""),
		Name:           n.MayString("MIND_BUDDY_NAME", ""),
		Bio:            n.MayString("MIND_BUDDY_BIO", ""),
		Aliases:        n.MayCSV("ALIASES", nil),
		Signalers:      n.MayCSV("SIGNALERS", nil),
		PollInterval:   n.MayDuration("POST_CHECK_INTERVAL", 5*time.Second),
		MaxProxyAge:    n.MayDuration("MAX_PROXY_AGE", 10*time.Minute),
		MaxPosts:       n.MayInt("MAX_POSTS", 10),
		CycleBackoff:   n.MayDuration("CYCLE_BACKOFF", 10*time.Second),
		ProxyJitterMax: n.MayDuration("PROXY_JITTER_MAX", 0),
		TempLinger:     n.MayDuration("TEMP_LINGER", 30*time.Second),
		IDMode:         n.MayEnum("ID_MODE", "synth", "synth", "strong"),
		ExportFormat:   n.MayEnum("EXPORT_FORMAT", "auto", "auto", "markdown", "html"),
		TimeZone:       n.MayString("TZ", "Local"),
		Board: BoardOptions{
			Kind:       b.MayEnum("KIND", "gateway", "gateway", "memory"),
			GatewayURL: b.MayString("GATEWAY_URL", ""),
			Token:      b.MayString("TOKEN", ""),
			Email:      n.MayString("MIND_BUDDY_EMAIL", ""),
			Password:   n.MayString("MIND_BUDDY_PASSWORD", ""),
			Timeout:    b.MayDuration("TIMEOUT", 30*time.Second),
			Retries:    b.MayInt("RETRIES", 3),
		},
	}
	return o.resolve()
}

var reBoardID = regexp.MustCompile(`padlet\.com/[^/]+/([^/?#]+)`)

// resolve normalizes the board url, derives the board id and fills the default bio
func (o Options) resolve() Options {
	if o.BoardURL != "" {
		if u, err := purell.NormalizeURLString(o.BoardURL, purell.FlagsUsuallySafeGreedy|purell.FlagRemoveFragment); err == nil {
			o.BoardURL = u
		}
	}
	if o.BoardID == "" {
		o.BoardID = BoardIDFromURL(o.BoardURL)
	}
	if o.Bio == "" && o.Name != "" {
		o.Bio = DefaultBio(o.Name, o.OriginalAuthor)
	}
	return o
}

// BoardIDFromURL extracts the board slug from a padlet.com/<user>/<board> url
func BoardIDFromURL(u string) string {
	m := reBoardID.FindStringSubmatch(u)
	if m == nil {
		return ""
	}
	return strings.TrimSuffix(m[1], "/")
}

// DefaultBio is the ABOUT introduction used when none is configured
func DefaultBio(name, author string) string {
	return fmt.Sprintf("Hi! I'm %s, %s's Mind Buddy. 🐨 I have my own thoughts and feelings, "+
		"and I love exploring ideas and thinking independently!", name, author)
}

// Validate checks every field and reports all failures at once
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return err
	}
	if o.Board.Kind == "gateway" && o.BoardID == "" {
		return perr.WithField(perr.Validationf("BOARD_ID is required, set it or a padlet.com BOARD_URL"), "BOARD_ID")
	}
	if o.TimeZone != "" && o.TimeZone != "Local" {
		if _, err := time.LoadLocation(o.TimeZone); err != nil {
			return perr.WithField(perr.Wrapf(err, perr.ErrorCodeValidation, "unknown time zone %q", o.TimeZone), "TZ")
		}
	}
	return nil
}

// Location resolves TimeZone; invalid names fall back to time.Local
func (o Options) Location() *time.Location {
	if o.TimeZone == "" || o.TimeZone == "Local" {
		return time.Local
	}
	if loc, err := time.LoadLocation(o.TimeZone); err == nil {
		return loc
	}
	return time.Local
}

// Format is the configured export format
func (o Options) Format() posts.Format { return posts.ParseFormat(o.ExportFormat) }
