package css

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	complexNthRegexp = regexp.MustCompile(`^([+-]?\d*)?n\s*([+-]\s*\d+)?$`)
	simpleNthRegexp  = regexp.MustCompile(`^([+-]?\d+)$`)
	langRegexp       = regexp.MustCompile(`^[a-zA-Z0-9-]+$`)
	whitespaceRegexp = regexp.MustCompile(`\s`)
)

var formControls = []string{"input", "textarea", "select", "button", "option", "optgroup", "fieldset"}
var links = []string{"a", "area", "link"}

var PseudoClasses = map[string]func(Node) bool{
	"root":          isRoot,
	"empty":         isEmpty,
	"checked":       isChecked,
	"disabled":      isDisabled,
	"enabled":       func(n Node) bool { return isFormControl(n) && !isDisabled(n) },
	"optional":      func(n Node) bool { return isInput(n) && !hasAttribute(n, "required") },
	"required":      func(n Node) bool { return isInput(n) && hasAttribute(n, "required") },
	"read-only":     func(n Node) bool { return isInput(n) && hasAttribute(n, "readonly") },
	"read-write":    func(n Node) bool { return isInput(n) && !hasAttribute(n, "readonly") },
	"link":          func(n Node) bool { return isLink(n) && !state(n, StateNode.Visited) },
	"visited":       func(n Node) bool { return isLink(n) && state(n, StateNode.Visited) },
	"target":        func(n Node) bool { return state(n, StateNode.Target) },
	"active":        func(n Node) bool { return state(n, StateNode.Active) },
	"hover":         func(n Node) bool { return state(n, StateNode.Hovered) },
	"focus":         func(n Node) bool { return state(n, StateNode.Focused) },
	"first-child":   nthSiblingCompiled(prevElement, "1", false),
	"first-of-type": nthSiblingCompiled(prevElement, "1", true),
	"last-child":    nthSiblingCompiled(nextElement, "1", false),
	"last-of-type":  nthSiblingCompiled(nextElement, "1", true),
	"only-child":    onlyChild(false),
	"only-of-type":  onlyChild(true),
}

var PseudoFunctions = map[string]func(string) (func(Node) bool, error){
	"nth-child":        nthSibling(prevElement, false),
	"nth-last-child":   nthSibling(nextElement, false),
	"nth-of-type":      nthSibling(prevElement, true),
	"nth-last-of-type": nthSibling(nextElement, true),
	"lang":             lang,
	"contains":         containsText,
}

var Matchers = map[string]func(string, string) bool{
	"~=": includeMatch,
	"|=": func(av, sv string) bool { return av == sv || strings.HasPrefix(av, sv+"-") },
	"^=": func(av, sv string) bool { return sv != "" && strings.HasPrefix(av, sv) },
	"$=": func(av, sv string) bool { return sv != "" && strings.HasSuffix(av, sv) },
	"*=": func(av, sv string) bool { return sv != "" && strings.Contains(av, sv) },
	"=":  func(av, sv string) bool { return av == sv },
	"":   func(string, string) bool { return true },
}

func isEmpty(n Node) bool {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := c.Type(); t == ElementNode || t == TextNode {
			return false
		}
	}
	return true
}

func isRoot(n Node) bool {
	return !isElement(n.Parent())
}

func is(n Node, tags []string) bool {
	return slices.Contains(tags, strings.ToLower(n.TagName()))
}

func isInput(n Node) bool {
	return is(n, []string{"input", "textarea"})
}

func isFormControl(n Node) bool { return is(n, formControls) }
func isLink(n Node) bool        { return is(n, links) && hasAttribute(n, "href") }

func isDisabled(n Node) bool {
	if s, ok := n.(StateNode); ok {
		return s.Disabled()
	}
	return isFormControl(n) && hasAttribute(n, "disabled")
}

func isChecked(n Node) bool {
	if s, ok := n.(StateNode); ok {
		return s.Checked()
	}
	switch strings.ToLower(n.TagName()) {
	case "input":
		return hasAttribute(n, "checked")
	case "option":
		return hasAttribute(n, "selected")
	}
	return false
}

// state reports f(n) for nodes that expose their state and false for all others.
func state(n Node, f func(StateNode) bool) bool {
	s, ok := n.(StateNode)
	return ok && f(s)
}

func onlyChild(ofType bool) func(Node) bool {
	return func(n Node) bool {
		return position(n, prevElement, ofType) == 1 && position(n, nextElement, ofType) == 1
	}
}

// position returns the 1-based position of n among its element siblings in the direction of next.
func position(n Node, next func(Node) Node, ofType bool) int {
	nth := 1
	for s := next(n); s != nil; s = next(s) {
		if !ofType || strings.EqualFold(s.TagName(), n.TagName()) {
			nth++
		}
	}
	return nth
}

func parseNthArgs(args string) (int, int, error) {
	switch args = strings.ToLower(strings.TrimSpace(args)); {
	case args == "odd":
		return 2, 1, nil
	case args == "even":
		return 2, 0, nil
	}
	if m := simpleNthRegexp.FindStringSubmatch(args); m != nil {
		b, err := atoi(m[1], "0")
		return 0, b, err
	} else if m := complexNthRegexp.FindStringSubmatch(args); m != nil {
		a, err := atoi(m[1], "1")
		if err != nil {
			return 0, 0, err
		}
		b, err := atoi(m[2], "0")
		if err != nil {
			return 0, 0, err
		}
		return a, b, nil
	}
	return 0, 0, fmt.Errorf("bad nth arguments: %q", args)
}

func nthSibling(next func(Node) Node, ofType bool) func(string) (func(Node) bool, error) {
	return func(args string) (func(Node) bool, error) {
		a, b, err := parseNthArgs(args)
		if err != nil {
			return nil, err
		}
		return func(n Node) bool { return isNth(a, b, position(n, next, ofType)) }, nil
	}
}

func nthSiblingCompiled(next func(Node) Node, args string, ofType bool) func(Node) bool {
	f, err := nthSibling(next, ofType)(args)
	if err != nil {
		panic(err)
	}
	return f
}

func atoi(s, fallback string) (int, error) {
	s = whitespaceRegexp.ReplaceAllString(s, "")
	if s == "" || s == "+" || s == "-" {
		s = s + fallback
	}
	return strconv.Atoi(s)
}

// isNth checks whether y is a valid result for the given a and b.
// The formula is y = (a*n+b) with n being any non-negative integer.
// If a is 0 a*n is 0 and y must be b - otherwise a must fit into y-b n times, i.e. 0 or more times
// without any remainder.
func isNth(a, b, y int) bool {
	an := (y - b)
	return (a == 0 && b == y) || (a != 0 && an/a >= 0 && an%a == 0)
}

func includeMatch(value, sValue string) bool {
	if sValue == "" || strings.ContainsAny(sValue, " \t\r\n\f") {
		return false
	}
	for {
		if i := strings.IndexAny(value, " \t\r\n\f"); i == -1 {
			return value == sValue
		} else if value[:i] == sValue {
			return true
		} else {
			value = value[i+1:]
		}
	}
}

func lang(args string) (func(Node) bool, error) {
	if !langRegexp.MatchString(args) {
		return nil, fmt.Errorf("bad lang argument: %q", args)
	}
	return func(n Node) bool {
		for ; isElement(n); n = n.Parent() {
			if l, ok := nodeLang(n); ok {
				return Matchers["|="](strings.ToLower(l), strings.ToLower(args))
			}
		}
		return false
	}, nil
}

func nodeLang(n Node) (string, bool) {
	if l, ok := n.(LangNode); ok {
		return l.Lang()
	}
	return n.Attribute("lang")
}

func containsText(args string) (func(Node) bool, error) {
	if tokens, err := lex(args); err == nil && len(tokens) == 2 && tokens[0].kind == tokenString {
		args = tokens[0].text
	}
	return func(n Node) bool {
		t, ok := n.(TextContentNode)
		return ok && strings.Contains(t.TextContent(), args)
	}, nil
}
