package survey

import (
	"context"
	"errors"
)

// TableName is the relational table every response is written to.
const TableName = "survey_responses"

// KeyColumn is the primary key column shared by all backends.
const KeyColumn = "response_id"

// Field maps one submitted JSON key to its storage column.
type Field struct {
	JSON   string
	Column string
}

// Fields is the single source of truth for binding a submission to a row.
// Stores build their statements and items from it; order only affects the
// column order of the generated INSERT.
var Fields = []Field{
	{JSON: "lifestyle", Column: "lifestyle"},
	{JSON: "q2_choice", Column: "q2_choice"},
	{JSON: "q2a_influence", Column: "q2a_influence"},
	{JSON: "q2aa_frequent", Column: "q2aa_frequent"},
	{JSON: "q2b_payment", Column: "q2b_payment"},
	{JSON: "q2b_affect", Column: "q2b_affect"},
	{JSON: "q3_payment_option", Column: "q3_payment_option"},
	{JSON: "q4_payment_influence", Column: "q4_payment_influence"},
	{JSON: "q5_flex_fare", Column: "q5_flex_fare"},
	{JSON: "q5a_try_again", Column: "q5a_try_again"},
	{JSON: "q5aa_fairness", Column: "q5aa_fairness"},
	{JSON: "q6_show_up_hope", Column: "q6_show_up_hope"},
	{JSON: "q6a_take_chance", Column: "q6a_take_chance"},
	{JSON: "q6aa_reaction", Column: "q6aa_reaction"},
	{JSON: "q7_courtesy_impact", Column: "q7_courtesy_impact"},
	{JSON: "q8_coupon_choice", Column: "q8_coupon_choice"},
	{JSON: "q9_weather", Column: "q9_weather"},
	{JSON: "q10_likelihood", Column: "q10_likelihood"},
	{JSON: "q11_family_preference", Column: "q11_family_preference"},
	{JSON: "q12_age_group", Column: "q12_age_group"},
	{JSON: "location", Column: "location"},
}

// Answers holds submitted values keyed by JSON field name.
// A nil value (or a missing key) is stored as NULL.
type Answers map[string]*string

// Response is one respondent's submission, written as a single row.
type Response struct {
	ResponseID string
	Answers    Answers
}

// Record returns column -> value for every column of the row, including the key.
// Absent answers are untyped nil so every backend encodes them as NULL.
func (r Response) Record() map[string]any {
	rec := make(map[string]any, len(Fields)+1)
	rec[KeyColumn] = r.ResponseID
	for _, f := range Fields {
		if v := r.Answers[f.JSON]; v != nil {
			rec[f.Column] = *v
		} else {
			rec[f.Column] = nil
		}
	}
	return rec
}

// Store persists survey responses. Insert writes exactly one row or nothing.
type Store interface {
	Insert(ctx context.Context, resp Response) error
}

// ErrDuplicateResponseID is returned when a row with the same response_id exists.
var ErrDuplicateResponseID = errors.New("response_id already exists")
