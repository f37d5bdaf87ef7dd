// Package schema maps the physical columns of a yearly disclosure file onto
// the small set of canonical fields the reports are computed from. Column
// names drift across dataset years (e.g. lca_case_soc_name vs soc_title), so
// each canonical field carries a static, priority-ordered alias list plus one
// fallback regex used only when no alias matches.
package schema

import "regexp"

// Field identifies a canonical semantic field.
type Field int

const (
	CertificationStatus Field = iota
	SOCCode
	SOCName
	WorkState
	CaseNumber
)

// Key returns the synthetic record key the merged value of the field is
// written under. Keys are prefixed so they can never collide with a physical
// header name (headers are lowercased by the parser).
func (f Field) Key() string {
	switch f {
	case CertificationStatus:
		return "_status"
	case SOCCode:
		return "_soc_code"
	case SOCName:
		return "_soc_name"
	case WorkState:
		return "_work_state"
	case CaseNumber:
		return "_case_number"
	}
	return "_unknown"
}

func (f Field) String() string {
	switch f {
	case CertificationStatus:
		return "certification_status"
	case SOCCode:
		return "soc_code"
	case SOCName:
		return "soc_name"
	case WorkState:
		return "work_state"
	case CaseNumber:
		return "case_number"
	}
	return "unknown"
}

// Fields lists every canonical field in a stable order.
var Fields = []Field{CertificationStatus, SOCCode, SOCName, WorkState, CaseNumber}

// FieldByName maps a field's String() form back to the Field; it is how
// config files name fields for alias overrides.
func FieldByName(name string) (Field, bool) {
	for _, f := range Fields {
		if f.String() == name {
			return f, true
		}
	}
	return 0, false
}

// spec describes how one canonical field is located in a header row.
type spec struct {
	// aliases are known physical names across dataset years. Order matters:
	// it is the merge priority when several aliases appear in one file.
	aliases []string
	// fallback is applied to every header, in header order, only when no
	// alias matched.
	fallback *regexp.Regexp
}

// specs is process-wide immutable configuration; it is never mutated after
// init.
var specs = map[Field]spec{
	SOCName: {
		aliases: []string{
			"pw_soc_title", "pw_soc_name", "suggested_soc_title",
			"suggested_soc_name", "pwd_soc_title", "pwd_soc_name",
			"soc_title", "lca_case_soc_name", "lca_case_soc_title", "soc_name",
		},
		fallback: regexp.MustCompile(`.*(soc).*_(title|name)$`),
	},
	SOCCode: {
		aliases: []string{
			"pw_soc_code", "suggested_soc_code", "pwd_soc_code",
			"soc_code", "pw soc code", "lca_case_soc_code",
		},
		fallback: regexp.MustCompile(`.*(soc).*_(code)$`),
	},
	CertificationStatus: {
		aliases:  []string{"case_status", "case status", "approval_status", "status"},
		fallback: regexp.MustCompile(`.*(case|approval).*status$`),
	},
	CaseNumber: {
		aliases:  []string{"case_number", "case number", "case_no", "lca_case_number"},
		fallback: regexp.MustCompile(`.*case.*_(number|no)$`),
	},
	WorkState: {
		aliases: []string{
			"job_info_work_state", "primary_worksite_state", "worksite_state",
			"job info work state", "alien_work_state", "worksite_location_state",
			"state_2", "state_1", "lca_case_workloc1_state", "lca_case_workloc2_state",
		},
		fallback: regexp.MustCompile(`.*(work|worksite).*_state$`),
	},
}

// Aliases returns the static alias list for f, in priority order.
func Aliases(f Field) []string {
	return specs[f].aliases
}
