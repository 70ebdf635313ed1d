package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(
		FieldSpec{Name: "email", Label: "Email", Required: true, Rules: []Rule{Pattern(EmailPattern, "enter a valid email")}},
		FieldSpec{Name: "phone", Label: "Phone", Rules: []Rule{Pattern(PhonePattern, "enter a valid phone number")}},
		FieldSpec{Name: "zip", Label: "ZIP", Required: true, Rules: []Rule{Pattern(ZIPPattern, "enter a 5-digit ZIP")}},
		FieldSpec{Name: "weight", Label: "Weight", Required: true, Rules: []Rule{NumberRange(20, 400, "Weight")}},
		FieldSpec{Name: "skill", Label: "Skill", Required: true, Rules: []Rule{OneOf("Skill", "beginner", "intermediate", "advanced")}},
		FieldSpec{Name: "diet", Label: "Diet", Required: true, Multi: true, Rules: []Rule{MinItems(1, "restriction")}},
	)

	tests := []struct {
		name   string
		field  string
		raw    string
		valid  bool
		reason string
	}{
		{"email ok", "email", "ada@example.com", true, ""},
		{"email missing", "email", "", false, "Email is required"},
		{"email whitespace", "email", "   ", false, "Email is required"},
		{"email malformed", "email", "ada@", false, "enter a valid email"},
		{"optional empty", "phone", "", true, ""},
		{"phone ok", "phone", "+1 (415) 555-0100", true, ""},
		{"phone short", "phone", "12", false, "enter a valid phone number"},
		{"zip5", "zip", "94107", true, ""},
		{"zip9", "zip", "94107-1234", true, ""},
		{"zip letters", "zip", "9410a", false, "enter a 5-digit ZIP"},
		{"weight ok", "weight", "72.5", true, ""},
		{"weight nan", "weight", "heavy", false, "Weight must be a number"},
		{"weight range", "weight", "1000", false, "Weight must be between 20 and 400"},
		{"skill ok", "skill", "advanced", true, ""},
		{"skill bad", "skill", "chef", false, "Skill must be one of: beginner, intermediate, advanced"},
		{"diet one", "diet", "vegan", true, ""},
		{"diet blanks", "diet", " , ", false, "choose at least one restriction"},
		{"unknown field", "shoe", "42", false, `unknown field "shoe"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Validate(tt.field, tt.raw)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Equal(t, tt.reason, got.Reason)
		})
	}
}

func TestValidator_IsPure(t *testing.T) {
	v := NewValidator(FieldSpec{Name: "name", Required: true, Rules: []Rule{MinLength(2, "name")}})
	first := v.Validate("name", "A")
	_ = v.Validate("name", "Ada")
	assert.Equal(t, first, v.Validate("name", "A"))
}

func TestExpr(t *testing.T) {
	rule, err := Expr("number && value >= 13 && value <= 120", "age must be between 13 and 120")
	require.NoError(t, err)

	assert.True(t, rule.Check("34").Valid)
	assert.True(t, rule.Check(" 13 ").Valid)
	assert.Equal(t, Invalid("age must be between 13 and 120"), rule.Check("12"))
	assert.False(t, rule.Check("old").Valid)

	text, err := Expr(`len(raw) <= 4 || raw startsWith "x"`, "too long")
	require.NoError(t, err)
	assert.True(t, text.Check("abcd").Valid)
	assert.True(t, text.Check("xabcdef").Valid)
	assert.False(t, text.Check("abcdef").Valid)

	_, err = Expr("value +", "broken")
	assert.Error(t, err)

	_, err = Expr("value + 1", "not bool")
	assert.Error(t, err)

	assert.Panics(t, func() { MustExpr("value >", "broken") })
}

func TestSplitJoinList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Equal(t, []string{"keto", "paleo"}, SplitList(" keto, ,paleo "))
	assert.Equal(t, "keto,paleo", JoinList([]string{"keto", "paleo"}))
	assert.Equal(t, []string{"keto", "paleo"}, SplitList(JoinList([]string{"keto", "paleo"})))
}

func TestResult_String(t *testing.T) {
	assert.Equal(t, "valid", Valid().String())
	assert.Equal(t, "invalid: nope", Invalid("nope").String())
}
