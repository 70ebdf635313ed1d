package wizard

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Result is the outcome of validating one raw field value.
type Result struct {
	Valid  bool
	Reason string
}

// Valid returns a passing result.
func Valid() Result {
	return Result{Valid: true}
}

// Invalid returns a failing result with a reason suitable for display next to
// the field.
func Invalid(reason string) Result {
	return Result{Valid: false, Reason: reason}
}

// String returns "valid" or "invalid: <reason>".
func (r Result) String() string {
	if r.Valid {
		return "valid"
	}
	return "invalid: " + r.Reason
}

// Rule checks a non-empty raw value. Emptiness is handled by the field's
// Required flag before any rule runs.
type Rule interface {
	Check(raw string) Result
}

// RuleFunc adapts a plain function to Rule.
type RuleFunc func(raw string) Result

// Check implements Rule.
func (f RuleFunc) Check(raw string) Result { return f(raw) }

// Common patterns used by the onboarding screens.
var (
	EmailPattern = `^[^@\s]+@[^@\s]+\.[A-Za-z]{2,}$`
	PhonePattern = `^\+?[0-9][0-9 ()\-]{6,18}[0-9]$`
	ZIPPattern   = `^[0-9]{5}(-[0-9]{4})?$`
)

// MinLength requires at least n characters after trimming.
func MinLength(n int, label string) Rule {
	return RuleFunc(func(raw string) Result {
		if len([]rune(strings.TrimSpace(raw))) < n {
			return Invalid(fmt.Sprintf("%s must be at least %d characters", label, n))
		}
		return Valid()
	})
}

// MaxLength caps the value at n characters.
func MaxLength(n int, label string) Rule {
	return RuleFunc(func(raw string) Result {
		if len([]rune(raw)) > n {
			return Invalid(fmt.Sprintf("%s must be at most %d characters", label, n))
		}
		return Valid()
	})
}

// Pattern requires the trimmed value to match re. It panics on an invalid
// expression, like regexp.MustCompile.
func Pattern(re string, reason string) Rule {
	compiled := regexp.MustCompile(re)
	return RuleFunc(func(raw string) Result {
		if !compiled.MatchString(strings.TrimSpace(raw)) {
			return Invalid(reason)
		}
		return Valid()
	})
}

// NumberRange requires a number within [min, max].
func NumberRange(min, max float64, label string) Rule {
	return RuleFunc(func(raw string) Result {
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Invalid(fmt.Sprintf("%s must be a number", label))
		}
		if n < min || n > max {
			return Invalid(fmt.Sprintf("%s must be between %s and %s", label, formatNumber(min), formatNumber(max)))
		}
		return Valid()
	})
}

// OneOf requires the value to be one of options (case-sensitive).
func OneOf(label string, options ...string) Rule {
	allowed := make(map[string]struct{}, len(options))
	for _, o := range options {
		allowed[o] = struct{}{}
	}
	return RuleFunc(func(raw string) Result {
		if _, ok := allowed[strings.TrimSpace(raw)]; !ok {
			return Invalid(fmt.Sprintf("%s must be one of: %s", label, strings.Join(options, ", ")))
		}
		return Valid()
	})
}

// MinItems requires at least n entries in a comma-separated option list.
func MinItems(n int, label string) Rule {
	return RuleFunc(func(raw string) Result {
		if len(SplitList(raw)) < n {
			if n == 1 {
				return Invalid(fmt.Sprintf("choose at least one %s", label))
			}
			return Invalid(fmt.Sprintf("choose at least %d %s", n, label))
		}
		return Valid()
	})
}

// exprEnv is the environment expression rules are compiled against.
type exprEnv struct {
	Value  float64 `expr:"value"`
	Number bool    `expr:"number"`
	Raw    string  `expr:"raw"`
}

type exprRule struct {
	source  string
	program *vm.Program
	reason  string
}

// Expr compiles a boolean expr-lang expression into a rule. The expression
// sees `raw` (the trimmed text), `number` (whether raw parses as a number)
// and `value` (the parsed number, zero otherwise).
//
//	Expr("number && value >= 13 && value <= 120", "age must be between 13 and 120")
func Expr(expression, reason string) (Rule, error) {
	program, err := expr.Compile(expression, expr.Env(exprEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile rule %q: %w", expression, err)
	}
	return &exprRule{source: expression, program: program, reason: reason}, nil
}

// MustExpr is Expr that panics on compile errors. Intended for rule tables
// declared at package level.
func MustExpr(expression, reason string) Rule {
	r, err := Expr(expression, reason)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *exprRule) Check(raw string) Result {
	trimmed := strings.TrimSpace(raw)
	env := exprEnv{Raw: trimmed}
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil {
		env.Value = n
		env.Number = true
	}
	out, err := expr.Run(r.program, env)
	if err != nil {
		return Invalid(r.reason)
	}
	if ok, _ := out.(bool); !ok {
		return Invalid(r.reason)
	}
	return Valid()
}

// FieldSpec declares one field of a section.
type FieldSpec struct {
	Name     string
	Label    string
	Required bool
	// Multi marks a comma-separated option set rather than free text.
	Multi bool
	// Options lists the selectable values for option fields. Empty for text.
	Options []string
	Rules   []Rule
}

func (fs FieldSpec) label() string {
	if fs.Label != "" {
		return fs.Label
	}
	return fs.Name
}

// Validate checks raw against the field's rules. Empty values fail only when required.
func (fs FieldSpec) Validate(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		if fs.Required {
			return Invalid(fmt.Sprintf("%s is required", fs.label()))
		}
		return Valid()
	}
	for _, rule := range fs.Rules {
		if res := rule.Check(raw); !res.Valid {
			return res
		}
	}
	return Valid()
}

// Validator maps field names to their specs. It holds no per-value state, so
// Validate is pure.
type Validator struct {
	specs map[string]FieldSpec
}

// NewValidator builds a validator from field specs. Later specs with the same
// name replace earlier ones.
func NewValidator(specs ...FieldSpec) *Validator {
	v := &Validator{specs: make(map[string]FieldSpec, len(specs))}
	for _, s := range specs {
		v.specs[s.Name] = s
	}
	return v
}

// Validate checks rawValue against the rules registered for fieldName.
func (v *Validator) Validate(fieldName, rawValue string) Result {
	spec, ok := v.specs[fieldName]
	if !ok {
		return Invalid(fmt.Sprintf("unknown field %q", fieldName))
	}
	return spec.Validate(rawValue)
}

// SplitList parses a comma-separated option list, dropping blanks.
func SplitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of SplitList.
func JoinList(items []string) string {
	return strings.Join(items, ",")
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
