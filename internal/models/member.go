package models

// MemberKind discriminates the account type in a polymorphic reference
type MemberKind string

const (
	KindParent MemberKind = "parent"
	KindTeen   MemberKind = "teen"
	KindChild  MemberKind = "child"
)

// Valid reports whether the kind is one of the known account types
func (k MemberKind) Valid() bool {
	switch k {
	case KindParent, KindTeen, KindChild:
		return true
	}
	return false
}

// MemberRef is a tagged reference to a parent, teen, or child record
type MemberRef struct {
	Kind MemberKind `json:"kind"`
	ID   string     `json:"id"`
}

// ContainsMember reports whether refs includes the given reference
func ContainsMember(refs []MemberRef, ref MemberRef) bool {
	for _, r := range refs {
		if r == ref {
			return true
		}
	}
	return false
}
