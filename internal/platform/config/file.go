package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"unicode"

	perr "jakebot/internal/platform/errors"

	"gopkg.in/yaml.v3"
)

// WithFile returns a copy of c whose missing keys fall back to values read from path.
// The document may be YAML or JSON. camelCase keys become UPPER_SNAKE under prefix,
// nested maps join with "_" and scalar lists become comma separated values.
// Environment variables always win over the file
func (c Conf) WithFile(path, prefix string) (Conf, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return c, perr.Wrapf(err, perr.ErrorCodeNotFound, "read config file %s", path)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return c, perr.Wrapf(err, perr.ErrorCodeJSON, "parse config file %s", path)
	}

	merged := make(map[string]string, len(c.file)+len(doc))
	for k, v := range c.file {
		merged[k] = v
	}
	flatten(merged, prefix, doc)
	return Conf{prefix: c.prefix, file: merged}, nil
}

// FileKeys lists the overlay keys in sorted order
func (c Conf) FileKeys() []string {
	out := make([]string, 0, len(c.file))
	for k := range c.file {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func flatten(dst map[string]string, prefix string, doc map[string]any) {
	for k, v := range doc {
		key := prefix + EnvName(k)
		switch tv := v.(type) {
		case map[string]any:
			flatten(dst, key+"_", tv)
		case []any:
			parts := make([]string, 0, len(tv))
			for _, it := range tv {
				parts = append(parts, scalar(it))
			}
			dst[key] = strings.Join(parts, ",")
		case nil:
		default:
			dst[key] = scalar(tv)
		}
	}
}

func scalar(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case int:
		return strconv.Itoa(tv)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(tv)
	default:
		return fmt.Sprint(tv)
	}
}

// EnvName converts a camelCase or kebab-case key into UPPER_SNAKE (mindBuddyName -> MIND_BUDDY_NAME)
func EnvName(k string) string {
	var b strings.Builder
	rs := []rune(k)
	for i, r := range rs {
		switch {
		case r == '-' || r == '.' || r == ' ':
			b.WriteByte('_')
			continue
		case unicode.IsUpper(r) && i > 0 && (unicode.IsLower(rs[i-1]) || unicode.IsDigit(rs[i-1])):
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
