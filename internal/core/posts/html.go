package posts

import (
	"strings"

	str "jakebot/internal/platform/strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// htmlBlocks extracts one block per post element. A post element is an <article>, or any
// element whose data-testid or class names it a post
func htmlBlocks(raw string) ([]block, error) {
	doc, err := html.Parse(strings.NewReader(raw))
	if err != nil {
		return nil, err
	}

	var out []block
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && isPost(n) {
			out = append(out, postBlock(n))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out, nil
}

func isPost(n *html.Node) bool {
	if n.DataAtom == atom.Article {
		return true
	}
	if v := attr(n, "data-testid"); v == "post" || v == "surface-post" {
		return true
	}
	return hasClass(n, "post")
}

func postBlock(n *html.Node) block {
	b := block{domID: str.FirstNonEmpty(attr(n, "data-post-id"), attr(n, "data-id"), attr(n, "id"))}

	var (
		titleNode, authorNode, timeNode *html.Node
		paras                           []*html.Node
	)
	var find func(c *html.Node)
	find = func(c *html.Node) {
		if c.Type == html.ElementNode {
			switch {
			case timeNode == nil && c.DataAtom == atom.Time:
				timeNode = c
				return
			case authorNode == nil && isRole(c, "author"):
				authorNode = c
				return
			case titleNode == nil && (isHeading(c) || isRole(c, "title")):
				titleNode = c
				return
			case c.DataAtom == atom.P:
				paras = append(paras, c)
				return
			}
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			find(k)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		find(c)
	}

	if timeNode != nil {
		b.rawTS = strings.TrimSpace(textOf(timeNode))
		if b.rawTS == "" {
			b.rawTS = attr(timeNode, "datetime")
		}
	}
	if authorNode != nil {
		b.author = textOf(authorNode)
	}

	var frags []string
	if len(paras) > 0 {
		for _, p := range paras {
			frags = append(frags, textOf(p))
		}
	} else {
		frags = strings.Split(textSkipping(n, titleNode, authorNode, timeNode), "\n")
	}

	if titleNode != nil {
		b.title = strings.TrimSpace(textOf(titleNode))
	}

	created := ""
	for _, f := range frags {
		if strings.TrimSpace(f) == "" {
			continue
		}
		if meta(&b, f, &created) {
			continue
		}
		if b.title == "" && titleNode == nil {
			first, rest, _ := strings.Cut(strings.TrimSpace(f), "\n")
			b.title = first
			if strings.TrimSpace(rest) != "" {
				b.paragraphs = append(b.paragraphs, rest)
			}
			continue
		}
		b.paragraphs = append(b.paragraphs, f)
	}
	if b.rawTS == "" {
		b.rawTS = created
	}
	return b
}

// textOf renders visible text with <br> and block boundaries as newlines
func textOf(n *html.Node) string {
	return textSkipping(n)
}

func textSkipping(n *html.Node, skip ...*html.Node) string {
	var sb strings.Builder
	var rec func(c *html.Node)
	rec = func(c *html.Node) {
		for _, s := range skip {
			if s != nil && c == s {
				return
			}
		}
		switch c.Type {
		case html.TextNode:
			sb.WriteString(c.Data)
			return
		case html.ElementNode:
			switch c.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Br:
				sb.WriteByte('\n')
				return
			}
		}
		block := c.Type == html.ElementNode && isBlockish(c)
		if block {
			sb.WriteByte('\n')
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			rec(k)
		}
		if block {
			sb.WriteByte('\n')
		}
	}
	rec(n)
	return strings.Trim(sb.String(), "\n")
}

func isBlockish(n *html.Node) bool {
	switch n.DataAtom {
	case atom.P, atom.Div, atom.Li, atom.Ul, atom.Ol, atom.Section, atom.Header, atom.Footer, atom.Blockquote:
		return true
	}
	return isHeading(n)
}

func isHeading(n *html.Node) bool {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		return true
	}
	return false
}

// isRole matches data-testid="post-<role>" / "<role>" or a class containing role
func isRole(n *html.Node, role string) bool {
	if v := attr(n, "data-testid"); v == role || v == "post-"+role {
		return true
	}
	for _, c := range strings.Fields(attr(n, "class")) {
		if strings.Contains(strings.ToLower(c), role) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, name string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == name {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}
