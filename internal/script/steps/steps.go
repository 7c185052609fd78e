// Package steps runs automation scripts written as a YAML list of actions.
//
//	name: open-menu
//	delay: 100
//	steps:
//	  - click: { point: "Options" }
//	  - wait-color: { point: "Play", color: "83,141,78", timeout: 5000 }
//	  - if-color:
//	      point: 3
//	      color: "#9e74ce"
//	      then:
//	        - click: { point: 3 }
//	  - repeat: { times: 2, steps: [ { key: { key: "enter" } } ] }
//
// Each step is a single action name mapped to its parameters. Execution stops
// on the first failing step.
package steps

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mj1618/scoopick/internal/script"
	"gopkg.in/yaml.v3"
)

// Actions lists the supported step types.
var Actions = []string{"click", "move", "type", "key", "sleep", "wait-color", "if-color", "capture", "repeat", "log"}

// Document is the on-disk shape of a step script.
type Document struct {
	Name  string                              `yaml:"name"`
	Delay int                                 `yaml:"delay"` // ms paused after every input action
	Steps []map[string]map[string]interface{} `yaml:"steps"`
}

// intKeys are parameters read as integers. A quoted or fractional value is
// rejected at load time rather than replaced by a default.
var intKeys = []string{"times", "ms", "timeout", "interval", "threshold", "count", "delay"}

// step is a validated action with its nested blocks.
type step struct {
	Action string
	Params map[string]interface{}
	Then   []step
	Else   []step
	Body   []step
}

func init() {
	script.RegisterLoader(".yaml", Load)
	script.RegisterLoader(".yml", Load)
}

// Load reads and validates a step script file.
func Load(path string, d script.Deps) (script.Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read step script: %w", err)
	}
	return Parse(data, d)
}

// Parse validates a step script document.
func Parse(data []byte, d script.Deps) (*Script, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML steps: %w", err)
	}
	raw := make([]interface{}, len(doc.Steps))
	for i, s := range doc.Steps {
		m := make(map[string]interface{}, len(s))
		for k, v := range s {
			m[k] = toAnyMap(v)
		}
		raw[i] = m
	}
	steps, err := compile(raw, "")
	if err != nil {
		return nil, err
	}
	if doc.Delay > 0 {
		d.ActionDelay = time.Duration(doc.Delay) * time.Millisecond
	}
	return &Script{Name: doc.Name, steps: steps, deps: d}, nil
}

func toAnyMap(m map[string]interface{}) interface{} {
	if m == nil {
		return map[string]interface{}{}
	}
	return m
}

// compile validates a list of raw steps. prefix locates nested steps in
// error messages, e.g. "3.then.1".
func compile(raw []interface{}, prefix string) ([]step, error) {
	if len(raw) == 0 {
		where := "script"
		if prefix != "" {
			where = prefix
		}
		return nil, fmt.Errorf("%s: no steps provided, expected a list of actions", where)
	}
	out := make([]step, 0, len(raw))
	for i, r := range raw {
		loc := fmt.Sprintf("%s%d", prefix, i+1)
		m, ok := r.(map[string]interface{})
		if !ok || len(m) != 1 {
			return nil, fmt.Errorf("step %s: expected exactly one action key", loc)
		}
		for action, v := range m {
			params, ok := v.(map[string]interface{})
			if v != nil && !ok {
				return nil, fmt.Errorf("step %s (%s): parameters must be a map", loc, action)
			}
			if params == nil {
				params = map[string]interface{}{}
			}
			st, err := compileStep(action, params, loc)
			if err != nil {
				return nil, err
			}
			out = append(out, st)
		}
	}
	return out, nil
}

func compileStep(action string, params map[string]interface{}, loc string) (step, error) {
	st := step{Action: action, Params: params}
	fail := func(format string, args ...interface{}) (step, error) {
		return step{}, fmt.Errorf("step %s (%s): %s", loc, action, fmt.Sprintf(format, args...))
	}
	for _, k := range intKeys {
		if v, ok := params[k]; ok && !isInt(v) {
			return fail("%s must be an integer, got %v", k, v)
		}
	}
	switch action {
	case "click", "move":
		if _, ok := params["point"]; !ok {
			return fail("point is required")
		}
	case "type":
		if stringParam(params, "text", "") == "" {
			return fail("text is required")
		}
	case "key":
		if stringParam(params, "key", "") == "" {
			return fail("key is required")
		}
	case "sleep":
		if intParam(params, "ms", 0) <= 0 {
			return fail("ms must be > 0")
		}
	case "wait-color", "if-color":
		if _, ok := params["point"]; !ok {
			return fail("point is required")
		}
		if _, err := colorParam(params, "color"); err != nil {
			return fail("%v", err)
		}
		if action == "if-color" {
			var err error
			if st.Then, err = compile(listParam(params, "then"), loc+".then."); err != nil {
				return step{}, err
			}
			if els := listParam(params, "else"); len(els) > 0 {
				if st.Else, err = compile(els, loc+".else."); err != nil {
					return step{}, err
				}
			}
		}
	case "repeat":
		if intParam(params, "times", 0) < 0 {
			return fail("times must be >= 0")
		}
		var err error
		if st.Body, err = compile(listParam(params, "steps"), loc+".steps."); err != nil {
			return step{}, err
		}
	case "capture", "log":
	default:
		return fail("unknown step type, supported: %s", strings.Join(Actions, ", "))
	}
	return st, nil
}
