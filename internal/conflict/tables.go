package conflict

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Table names used by the onboarding screens and the select command.
const (
	Dietary = "dietary"
	Health  = "health"
)

// None is the exclusive sentinel of the built-in tables.
const None = "none"

// DietaryTable returns the built-in dietary restriction table.
func DietaryTable() *Table {
	return NewTable(Dietary,
		[]string{"vegan", "vegetarian", "pescatarian", "keto", "paleo", "carnivore", "high-carb", "gluten-free", "dairy-free", "halal", "kosher"},
		None,
		map[string][]string{
			"vegan":      {"keto", "paleo", "pescatarian", "carnivore"},
			"vegetarian": {"paleo", "pescatarian", "carnivore"},
			"keto":       {"high-carb"},
		},
	)
}

// HealthTable returns the built-in health condition table.
func HealthTable() *Table {
	return NewTable(Health,
		[]string{"diabetes", "hypertension", "celiac", "heart-disease", "high-cholesterol", "ibs", "kidney-disease"},
		None,
		nil,
	)
}

// Tables is a set of conflict tables by name.
type Tables map[string]*Table

// Builtin returns the dietary and health tables.
func Builtin() Tables {
	return Tables{
		Dietary: DietaryTable(),
		Health:  HealthTable(),
	}
}

// Get returns the named table.
func (ts Tables) Get(name string) (*Table, error) {
	t, ok := ts[name]
	if !ok {
		return nil, fmt.Errorf("unknown option set %q (known: %v)", name, ts.Names())
	}
	return t, nil
}

// Names lists the table names, sorted.
func (ts Tables) Names() []string {
	names := make([]string, 0, len(ts))
	for n := range ts {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// tableFile is the YAML shape of one table.
//
//	dietary:
//	  sentinel: none
//	  options: [vegan, keto]
//	  conflicts:
//	    vegan: [keto]
type tableFile struct {
	Sentinel  string              `yaml:"sentinel"`
	Options   []string            `yaml:"options"`
	Conflicts map[string][]string `yaml:"conflicts"`
}

// ParseTables decodes YAML table definitions.
func ParseTables(data []byte) (Tables, error) {
	var raw map[string]tableFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse conflict tables: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("parse conflict tables: no tables defined")
	}
	ts := make(Tables, len(raw))
	for name, tf := range raw {
		for a, bs := range tf.Conflicts {
			for _, b := range bs {
				if a == b {
					return nil, fmt.Errorf("table %q: %q cannot conflict with itself", name, a)
				}
			}
		}
		ts[name] = NewTable(name, tf.Options, tf.Sentinel, tf.Conflicts)
	}
	return ts, nil
}

// LoadTables returns the built-in tables, with any tables defined in the YAML
// file at path replacing the built-in ones of the same name. An empty path
// returns the built-ins.
func LoadTables(path string) (Tables, error) {
	ts := Builtin()
	if path == "" {
		return ts, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conflict tables: %w", err)
	}
	loaded, err := ParseTables(data)
	if err != nil {
		return nil, err
	}
	for name, t := range loaded {
		ts[name] = t
	}
	return ts, nil
}
