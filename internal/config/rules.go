// Package config holds the Rules configuration (spec.md §6 input 4):
// homeroom teachers, part-time windows, joint-teaching teachers, Grade-5
// preferred subjects, teacher hour caps, a StandardHours scoring
// expression, and a filler pass limit. It has no settings for exchange
// pairs, Grade-5 preferred teachers, a subject priority list or
// standard-hours defaults.
//
// Grounded in the teacher's internal/infrastructure/config/config.go: same
// "load YAML into a typed struct, validate, return domain.Error on
// failure" shape, generalised from server/runtime config to scheduling
// rules config.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mitsuhirohayashi/timetable-generator-v5-sub005/internal/domain"
)

// PartTimeWindow is one teacher's configured available (day, period) set,
// as loaded from YAML before being handed to availability.Builder.
type PartTimeWindow struct {
	Teacher domain.Teacher `yaml:"teacher"`
	Slots   []SlotConfig   `yaml:"slots"`
}

// SlotConfig is the YAML-friendly mirror of domain.TimeSlot (a weekday
// name instead of the Weekday enum, since YAML has no native enum type).
type SlotConfig struct {
	Day    string `yaml:"day"`
	Period uint8  `yaml:"period"`
}

// HourCap overrides a teacher's default daily/weekly workload cap.
type HourCap struct {
	Teacher domain.Teacher `yaml:"teacher"`
	Daily   uint8          `yaml:"daily"`
	Weekly  uint8          `yaml:"weekly"`
}

// ScoringWeights carries an expr-lang expression for the StandardHours
// ScoringConstraint. The generator does not read it: catalogue.RegisterAll
// always builds StandardHours with its default expression.
type ScoringWeights struct {
	StandardHoursExpression string `yaml:"standard_hours_expression"`
}

// Rules is the top-level configuration document: homeroom teachers,
// part-time windows, joint-teaching teachers, Grade-5 preferred subjects,
// hour caps, scoring weights and the filler pass limit (exchange pairs are
// a fixed domain-level table, not configurable, per
// domain.ClassRef.ParentClass). The generator reads only PartTimeWindows
// and HourCaps.
type Rules struct {
	HomeroomTeachers    map[string]domain.Teacher          `yaml:"homeroom_teachers"` // "grade-classNumber" -> teacher
	PartTimeWindows     []PartTimeWindow                   `yaml:"part_time_windows"`
	JointTeachingByDay  map[domain.Subject]domain.Teacher  `yaml:"joint_teaching_teachers"`
	Grade5PreferredSubj []domain.Subject                   `yaml:"grade5_preferred_subjects"`
	HourCaps            []HourCap                          `yaml:"hour_caps"`
	Scoring             ScoringWeights                     `yaml:"scoring"`
	MaxFillerPasses     int                                `yaml:"max_filler_passes"`
}

// Load reads and parses a Rules document from path, returning
// domain.ConfigError on any I/O or decode failure.
func Load(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, domain.ConfigError("failed to read rules config", err)
	}
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return Rules{}, domain.ConfigError("failed to parse rules config", err)
	}
	if err := r.Validate(); err != nil {
		return Rules{}, err
	}
	return r, nil
}

// Validate rejects a Rules document with structurally broken references
// (empty teacher names, invalid weekday strings) before it reaches the
// availability/school builders.
func (r Rules) Validate() error {
	for _, w := range r.PartTimeWindows {
		if w.Teacher == "" {
			return domain.ConfigError("part_time_windows entry missing teacher", nil)
		}
		for _, s := range w.Slots {
			if _, err := ParseWeekday(s.Day); err != nil {
				return domain.ConfigError("part_time_windows entry has invalid day "+s.Day, err)
			}
		}
	}
	for _, c := range r.HourCaps {
		if c.Teacher == "" {
			return domain.ConfigError("hour_caps entry missing teacher", nil)
		}
	}
	return nil
}

var weekdayNames = map[string]domain.Weekday{
	"mon": domain.Monday, "monday": domain.Monday,
	"tue": domain.Tuesday, "tuesday": domain.Tuesday,
	"wed": domain.Wednesday, "wednesday": domain.Wednesday,
	"thu": domain.Thursday, "thursday": domain.Thursday,
	"fri": domain.Friday, "friday": domain.Friday,
}

// ParseWeekday accepts either a short ("mon") or full ("monday") English
// weekday name, case-insensitively (it lowercases s itself).
func ParseWeekday(s string) (domain.Weekday, error) {
	if d, ok := weekdayNames[lower(s)]; ok {
		return d, nil
	}
	return 0, domain.InvalidInputError("unknown weekday " + s)
}

func lower(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// ToTimeSlot converts a SlotConfig to a domain.TimeSlot, validating the
// period range via domain.NewTimeSlot.
func (s SlotConfig) ToTimeSlot() (domain.TimeSlot, error) {
	day, err := ParseWeekday(s.Day)
	if err != nil {
		return domain.TimeSlot{}, err
	}
	return domain.NewTimeSlot(day, s.Period)
}
