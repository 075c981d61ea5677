package constraint

// forcedWhitelist is the exhaustive rule set Forced mode enforces: spec.md
// §4.2/§4.7 define Forced literally as "teacher conflict + gym only", a
// last-resort escalation that drops even other Critical rules (locks,
// absence, part-time windows, Grade-5/exchange sync) because by the time the
// filler reaches Forced mode those have already failed to produce a legal
// value through every looser mode. Forced is therefore the one mode not
// expressed as "Critical plus some High rules" -- it is its own fixed pair.
var forcedWhitelist = map[string]bool{
	"TeacherConflict": true,
	"GymExclusive":    true,
}

// relaxedExtra is the single High-priority rule Relaxed mode keeps beyond
// Critical. TeacherConflict/TeacherAbsence are restated in spec.md's prose
// description of Relaxed for emphasis, but both are already Critical-tier
// and therefore always enforced regardless of mode; GymExclusive is the only
// rule this set actually adds.
const relaxedExtra = "GymExclusive"

// AllowsDelta reports whether a DeltaConstraint of the given priority and
// name should run in mode m, per spec.md §4.2's mode table:
//   - Strict:       every Critical rule, every High rule, plus the
//     Low-priority ConsecutivePeriods (named explicitly, promoted for the
//     CSP engine's Strict-mode domain computation).
//   - Balanced:     every Critical rule, every High rule; drops
//     ConsecutivePeriods.
//   - Relaxed:      every Critical rule, plus GymExclusive.
//   - UltraRelaxed: every Critical rule only.
//   - Forced:       exactly TeacherConflict and GymExclusive -- nothing
//     else, including other Critical rules.
func (m Mode) AllowsDelta(priority Priority, name string) bool {
	if m == Forced {
		return forcedWhitelist[name]
	}
	if priority == Critical {
		return true
	}
	if priority != High && name != "ConsecutivePeriods" {
		return false
	}
	switch m {
	case Strict:
		return true
	case Balanced:
		return name != "ConsecutivePeriods"
	case Relaxed:
		return name == relaxedExtra
	case UltraRelaxed:
		return false
	default:
		return false
	}
}
