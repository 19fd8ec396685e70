package domain

import (
	"strings"
)

// Cond is an opaque predicate string understood by the backing store,
// e.g. it.project.$id == 'p1' && it.name $like 'jo%'. The client only builds
// and forwards it.
type Cond string

func (c Cond) String() string { return string(c) }

var condEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func quote(v string) string {
	return "'" + condEscaper.Replace(v) + "'"
}

// Eq matches records whose attribute at path equals value.
func Eq(path, value string) Cond {
	return Cond("it." + path + " == " + quote(value))
}

// Like matches records whose attribute at path starts with prefix.
func Like(path, prefix string) Cond {
	return Cond("it." + path + " $like " + quote(prefix+"%"))
}

// In matches records whose attribute at path is one of values.
func In(path string, values []string) Cond {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = quote(v)
	}
	return Cond("it." + path + " $in [" + strings.Join(quoted, ", ") + "]")
}

// And joins the non-empty conditions with &&.
func And(conds ...Cond) Cond {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		if c != "" {
			parts = append(parts, string(c))
		}
	}
	return Cond(strings.Join(parts, " && "))
}
