package model

import "strings"

// Kind tags the variant of an Item. Every kind shares one capability set;
// the accessors dispatch on it.
type Kind int

const (
	KindLeaf Kind = iota
	KindFolder
	KindGroup
	KindRoot
	KindPlaceholder
	KindMoreResults
)

var kindNames = map[Kind]string{
	KindLeaf:        "leaf",
	KindFolder:      "folder",
	KindGroup:       "group",
	KindRoot:        "root",
	KindPlaceholder: "placeholder",
	KindMoreResults: "more_results",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a document kind name onto a Kind. The empty string is
// not a kind; callers infer one from the presence of children.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return k, true
		}
	}
	return KindLeaf, false
}

// Container reports whether items of this kind can hold children even when
// they currently have none.
func (k Kind) Container() bool {
	switch k {
	case KindFolder, KindGroup, KindRoot:
		return true
	}
	return false
}

// Searchable reports whether search text applies to items of this kind.
// Placeholders and "more results" rows are structural and always shown.
func (k Kind) Searchable() bool {
	return k != KindPlaceholder && k != KindMoreResults
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// as KindLeaf.
func (k *Kind) UnmarshalText(text []byte) error {
	*k, _ = ParseKind(string(text))
	return nil
}
