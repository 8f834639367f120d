package requirement

import (
	"fmt"
	"maps"
	"runtime"
	"strings"
)

// Marker variables understood by the evaluator.
const (
	VarPythonVersion     = "python_version"
	VarPythonFullVersion = "python_full_version"
	VarOSName            = "os_name"
	VarSysPlatform       = "sys_platform"
	VarPlatformRelease   = "platform_release"
	VarPlatformSystem    = "platform_system"
	VarPlatformVersion   = "platform_version"
	VarPlatformMachine   = "platform_machine"
	VarImplementation    = "platform_python_implementation"
	VarImplName          = "implementation_name"
	VarImplVersion       = "implementation_version"
	VarExtra             = "extra"
)

var knownVars = map[string]string{
	VarPythonVersion:     VarPythonVersion,
	VarPythonFullVersion: VarPythonFullVersion,
	VarOSName:            VarOSName,
	VarSysPlatform:       VarSysPlatform,
	VarPlatformRelease:   VarPlatformRelease,
	VarPlatformSystem:    VarPlatformSystem,
	VarPlatformVersion:   VarPlatformVersion,
	VarPlatformMachine:   VarPlatformMachine,
	VarImplementation:    VarImplementation,
	VarImplName:          VarImplName,
	VarImplVersion:       VarImplVersion,
	VarExtra:             VarExtra,

	// legacy spellings
	"os.name":                        VarOSName,
	"sys.platform":                   VarSysPlatform,
	"platform.version":               VarPlatformVersion,
	"platform.machine":               VarPlatformMachine,
	"platform.python_implementation": VarImplementation,
	"python_implementation":          VarImplementation,
}

// Environment holds marker variable values for one interpreter.
type Environment map[string]string

// WithExtra returns a copy of env with the extra variable set.
func (env Environment) WithExtra(extra string) Environment {
	out := maps.Clone(env)
	if out == nil {
		out = Environment{}
	}
	out[VarExtra] = Canonicalize(extra)
	return out
}

// DefaultEnvironment describes a CPython 3.12 interpreter on the host
// platform. It is used when no interpreter can be probed.
func DefaultEnvironment() Environment {
	osName, platform, system := "posix", runtime.GOOS, runtime.GOOS
	switch runtime.GOOS {
	case "linux":
		system = "Linux"
	case "darwin":
		system = "Darwin"
	case "windows":
		osName, platform, system = "nt", "win32", "Windows"
	case "freebsd":
		platform, system = "freebsd", "FreeBSD"
	}

	machine := runtime.GOARCH
	switch runtime.GOARCH {
	case "amd64":
		machine = "x86_64"
		if runtime.GOOS == "windows" {
			machine = "AMD64"
		}
	case "arm64":
		if runtime.GOOS == "linux" {
			machine = "aarch64"
		}
	case "386":
		machine = "i686"
	}

	return Environment{
		VarPythonVersion:     "3.12",
		VarPythonFullVersion: "3.12.0",
		VarOSName:            osName,
		VarSysPlatform:       platform,
		VarPlatformRelease:   "",
		VarPlatformSystem:    system,
		VarPlatformVersion:   "",
		VarPlatformMachine:   machine,
		VarImplementation:    "CPython",
		VarImplName:          "cpython",
		VarImplVersion:       "3.12.0",
		VarExtra:             "",
	}
}

// Marker is a parsed PEP 508 environment marker.
type Marker struct {
	raw  string
	root node
}

// ParseMarker parses a marker expression such as
// `python_version < "3.11" and extra == "test"`.
func ParseMarker(s string) (*Marker, error) {
	toks, err := tokenize(s)
	if err != nil {
		return nil, err
	}
	p := &markerParser{toks: toks}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("marker %q: unexpected %q", s, t.val)
	}
	return &Marker{raw: strings.TrimSpace(s), root: root}, nil
}

// Evaluate reports whether the marker holds in env. Variables missing from
// env evaluate as empty strings.
func (m *Marker) Evaluate(env Environment) bool {
	if m == nil {
		return true
	}
	return m.root.eval(env)
}

// String returns the marker source text.
func (m *Marker) String() string {
	if m == nil {
		return ""
	}
	return m.raw
}

// References reports whether the marker mentions the given variable.
func (m *Marker) References(variable string) bool {
	return m != nil && m.root.refs(variable)
}

type node interface {
	eval(env Environment) bool
	refs(variable string) bool
}

type boolNode struct {
	and         bool
	left, right node
}

func (n *boolNode) eval(env Environment) bool {
	if n.and {
		return n.left.eval(env) && n.right.eval(env)
	}
	return n.left.eval(env) || n.right.eval(env)
}

func (n *boolNode) refs(v string) bool { return n.left.refs(v) || n.right.refs(v) }

type operand struct {
	variable string // canonical variable name, empty for literals
	literal  string
}

func (o operand) value(env Environment) string {
	if o.variable == "" {
		return o.literal
	}
	return env[o.variable]
}

type compareNode struct {
	left, right operand
	op          string
}

func (n *compareNode) refs(v string) bool { return n.left.variable == v || n.right.variable == v }

func (n *compareNode) eval(env Environment) bool {
	l, r := n.left.value(env), n.right.value(env)
	if n.refs(VarExtra) {
		l, r = Canonicalize(l), Canonicalize(r)
	}

	switch n.op {
	case "in":
		return strings.Contains(r, l)
	case "not in":
		return !strings.Contains(r, l)
	case "===":
		return l == r
	}

	if ok, valid := matchVersion(l, n.op, r); valid {
		return ok
	}
	switch n.op {
	case "==":
		return l == r
	case "!=":
		return l != r
	}
	return false
}

// Tokenizer

type tokKind int

const (
	tokEOF tokKind = iota
	tokLParen
	tokRParen
	tokString
	tokIdent
	tokOp
)

type token struct {
	kind tokKind
	val  string
}

var markerOps = []string{"===", "==", "!=", "<=", ">=", "~=", "<", ">"}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == '"' || c == '\'':
			end := strings.IndexByte(s[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("marker %q: unterminated string", s)
			}
			toks = append(toks, token{tokString, s[i+1 : i+1+end]})
			i += end + 2
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentChar(s[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, s[i:j]})
			i = j
		default:
			op := ""
			for _, candidate := range markerOps {
				if strings.HasPrefix(s[i:], candidate) {
					op = candidate
					break
				}
			}
			if op == "" {
				return nil, fmt.Errorf("marker %q: unexpected character %q", s, c)
			}
			toks = append(toks, token{tokOp, op})
			i += len(op)
		}
	}
	return append(toks, token{kind: tokEOF}), nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c == '.' || (c >= '0' && c <= '9')
}

// Parser

type markerParser struct {
	toks []token
	pos  int
}

func (p *markerParser) peek() token { return p.toks[p.pos] }

func (p *markerParser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *markerParser) keyword(word string) bool {
	if t := p.peek(); t.kind == tokIdent && t.val == word {
		p.pos++
		return true
	}
	return false
}

func (p *markerParser) parseOr() (node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.keyword("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &boolNode{left: left, right: right}
	}
	return left, nil
}

func (p *markerParser) parseAnd() (node, error) {
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	for p.keyword("and") {
		right, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		left = &boolNode{and: true, left: left, right: right}
	}
	return left, nil
}

func (p *markerParser) parseExpr() (node, error) {
	if p.peek().kind == tokLParen {
		p.next()
		n, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if t := p.next(); t.kind != tokRParen {
			return nil, fmt.Errorf("expected ')' in marker, got %q", t.val)
		}
		return n, nil
	}

	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	op, err := p.parseOp()
	if err != nil {
		return nil, err
	}
	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &compareNode{left: left, right: right, op: op}, nil
}

func (p *markerParser) parseOperand() (operand, error) {
	t := p.next()
	switch t.kind {
	case tokString:
		return operand{literal: t.val}, nil
	case tokIdent:
		v, ok := knownVars[t.val]
		if !ok {
			return operand{}, fmt.Errorf("unknown marker variable %q", t.val)
		}
		return operand{variable: v}, nil
	case tokEOF:
		return operand{}, fmt.Errorf("unexpected end of marker")
	}
	return operand{}, fmt.Errorf("unexpected %q in marker", t.val)
}

func (p *markerParser) parseOp() (string, error) {
	t := p.next()
	switch {
	case t.kind == tokOp:
		return t.val, nil
	case t.kind == tokIdent && t.val == "in":
		return "in", nil
	case t.kind == tokIdent && t.val == "not":
		if p.keyword("in") {
			return "not in", nil
		}
	}
	return "", fmt.Errorf("expected marker operator, got %q", t.val)
}
