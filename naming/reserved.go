package naming

import (
	"strconv"
	"strings"
	"unicode"
)

// reserved maps identifiers that cannot be used as generated package names to
// their alternates. It holds the Go keywords plus names claimed by the
// generated layout itself.
var reserved = map[string]string{
	"break":       "break_",
	"case":        "case_",
	"chan":        "chan_",
	"const":       "const_",
	"continue":    "continue_",
	"default":     "default_",
	"defer":       "defer_",
	"else":        "else_",
	"fallthrough": "fallthrough_",
	"for":         "for_",
	"func":        "func_",
	"go":          "go_",
	"goto":        "goto_",
	"if":          "if_",
	"import":      "import_",
	"interface":   "interface_",
	"map":         "map_",
	"package":     "package_",
	"range":       "range_",
	"return":      "return_",
	"select":      "select_",
	"struct":      "struct_",
	"switch":      "switch_",
	"type":        "type_",
	"var":         "var_",
	// validation helpers live in a "helpers" subpackage of every directory.
	"helpers": "helpers_",
}

// Reserved returns the alternate for a reserved identifier and true, or the
// identifier itself and false.
func Reserved(name string) (string, bool) {
	if alt, ok := reserved[name]; ok {
		return alt, true
	}
	return name, false
}

// build-constraint suffixes recognised by the go tool in file names.
var (
	knownOS = names(
		"aix", "android", "darwin", "dragonfly", "freebsd", "hurd", "illumos", "ios", "js",
		"linux", "nacl", "netbsd", "openbsd", "plan9", "solaris", "wasip1", "windows", "zos",
	)
	knownArch = names(
		"386", "amd64", "amd64p32", "arm", "armbe", "arm64", "arm64be", "loong64", "mips",
		"mipsle", "mips64", "mips64le", "mips64p32", "mips64p32le", "ppc", "ppc64", "ppc64le",
		"riscv", "riscv64", "s390", "s390x", "sparc", "sparc64", "wasm",
	)
)

func names(ids ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

// ModuleName returns the Go package (directory) name for one path segment.
// Example: "switch-controller" -> "switch_controller"
// Example: "interface" -> "interface_"
// Example: "802-1x" -> "x802_1x"
func ModuleName(segment string) string {
	name := strings.ToLower(ToSnake(Sanitize(segment)))
	if name == "" {
		return "x"
	}
	name, _ = Reserved(name)
	if first := rune(name[0]); unicode.IsDigit(first) || first == '_' {
		name = "x" + name
	}
	return name
}

// FileName returns the Go file stem for one path segment. Stems the go tool
// would treat specially (test files, build-constrained files, ignored files)
// are suffixed or prefixed so they always compile.
// Example: "ssl-ssh-profile" -> "ssl_ssh_profile"
// Example: "ssl-test" -> "ssl_test_"
// Example: "proxy-linux" -> "proxy_linux_"
func FileName(segment string) string {
	name := strings.ToLower(ToSnake(Sanitize(segment)))
	if name == "" {
		return "x"
	}
	if name[0] == '_' || name[0] == '.' {
		name = "x" + name
	}
	if constrained(name) {
		name += "_"
	}
	return name
}

// constrained reports whether the go tool would read a build constraint or
// a test marker from the file stem.
func constrained(stem string) bool {
	i := strings.IndexByte(stem, '_')
	if i < 0 {
		return false
	}
	parts := strings.Split(stem[i+1:], "_")
	last := parts[len(parts)-1]
	if last == "test" {
		return true
	}
	if _, ok := knownOS[last]; ok {
		return true
	}
	if _, ok := knownArch[last]; ok {
		return true
	}
	return false
}

// ClassName returns the exported Go type name for one path segment.
// Example: "custom" -> "Custom"
// Example: "802-1x-settings" -> "T8021xSettings"
func ClassName(segment string) string {
	name := ToPascal(segment)
	if name == "" {
		return "Endpoint"
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "T" + name
	}
	return name
}

// Uniquer hands out identifiers that are unique within one scope. A name that
// was already claimed gets the smallest numeric suffix that is still free.
// It is not safe for concurrent use.
type Uniquer struct {
	seen map[string]struct{}
}

// NewUniquer returns a Uniquer with the given names already taken.
func NewUniquer(taken ...string) *Uniquer {
	return &Uniquer{seen: names(taken...)}
}

// Claim returns name, or name with a numeric suffix if name is taken.
func (u *Uniquer) Claim(name string) string {
	if _, ok := u.seen[name]; !ok {
		u.seen[name] = struct{}{}
		return name
	}
	for i := 2; ; i++ {
		candidate := name + strconv.Itoa(i)
		if _, ok := u.seen[candidate]; !ok {
			u.seen[candidate] = struct{}{}
			return candidate
		}
	}
}
