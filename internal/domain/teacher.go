package domain

// Teacher is a name token. The zero value represents "unresolved" (a fixed
// subject whose cell carries no specific teacher).
type Teacher string

func (t Teacher) IsZero() bool {
	return t == ""
}

func (t Teacher) String() string {
	return string(t)
}

// defaultSentinels are teachers exempt from conflict checks because their
// "class" is administrative rather than instructional. Rules config
// (internal/config) may extend this set; core code should go through
// school.School.IsSentinelTeacher rather than this package-level default
// wherever a School is available.
var defaultSentinels = map[Teacher]struct{}{
	"欠課担当": {},
}

func (t Teacher) IsDefaultSentinel() bool {
	_, ok := defaultSentinels[t]
	return ok
}

// Assignment is the (subject, teacher) pair carried by a single Schedule
// cell, plus the class it belongs to so it can travel alone (e.g. in a
// Violation) without losing context.
type Assignment struct {
	Class   ClassRef
	Subject Subject
	Teacher Teacher
}

func (a Assignment) IsEmpty() bool {
	return a.Subject == ""
}
