package plan

import (
	"fmt"
	"strings"
	"time"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Action names the kind of step
type Action string

const (
	ActionClick Action = "click"
	ActionType  Action = "type"
	ActionPress Action = "press"
	ActionWait  Action = "wait"
)

// Step is one instruction of a plan. Durations are in seconds.
type Step struct {
	Action       Action   `json:"action"`
	Target       string   `json:"target,omitempty"`
	Text         string   `json:"text,omitempty"`
	Key          string   `json:"key,omitempty"`
	Seconds      *float64 `json:"seconds,omitempty"`
	Loop         bool     `json:"loop,omitempty"`
	LoopDuration float64  `json:"loop_duration,omitempty"`
	DelayBetween float64  `json:"delay_between,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Validate checks the fields required by the step's action
func (s Step) Validate() error {
	switch s.Action {
	case ActionClick:
		if strings.TrimSpace(s.Target) == "" {
			return fmt.Errorf("'click' requires 'target'")
		}
	case ActionType:
		if s.Text == "" {
			return fmt.Errorf("'type' requires 'text'")
		}
		if s.LoopDuration < 0 || s.DelayBetween < 0 {
			return fmt.Errorf("'type' loop timings must not be negative")
		}
	case ActionPress:
		if strings.TrimSpace(s.Key) == "" {
			return fmt.Errorf("'press' requires 'key'")
		}
	case ActionWait:
		if s.Seconds == nil {
			return fmt.Errorf("'wait' requires 'seconds'")
		}
		if *s.Seconds < 0 {
			return fmt.Errorf("'wait' seconds must not be negative (got %g)", *s.Seconds)
		}
	case "":
		return fmt.Errorf("missing 'action'")
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}
	return nil
}

// WaitDuration returns the wait step length
func (s Step) WaitDuration() time.Duration {
	if s.Seconds == nil {
		return 0
	}
	return seconds(*s.Seconds)
}

// String renders a one-line human description
func (s Step) String() string {
	switch s.Action {
	case ActionClick:
		return fmt.Sprintf("Click on: %s", s.Target)
	case ActionType:
		if s.Loop {
			d := s.LoopDuration
			if d == 0 {
				return fmt.Sprintf("Type (loop): %s", s.Text)
			}
			return fmt.Sprintf("Type (loop %gs): %s", d, s.Text)
		}
		return fmt.Sprintf("Type: %s", s.Text)
	case ActionPress:
		return fmt.Sprintf("Press: %s", s.Key)
	case ActionWait:
		return fmt.Sprintf("Wait: %gs", s.WaitDuration().Seconds())
	default:
		return fmt.Sprintf("Unknown action: %s", s.Action)
	}
}

// Plan is an ordered list of steps
type Plan struct {
	Instruction string `json:"instruction,omitempty"`
	Steps       []Step `json:"steps"`
}

// Validate rejects empty plans and malformed steps with ErrInvalidPlan
func (p Plan) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("%w: plan cannot be empty", domain.ErrInvalidPlan)
	}
	for i, step := range p.Steps {
		if err := step.Validate(); err != nil {
			return fmt.Errorf("%w: step %d: %v", domain.ErrInvalidPlan, i+1, err)
		}
	}
	return nil
}

// Markdown renders the plan as a numbered markdown list
func (p Plan) Markdown() string {
	var b strings.Builder
	b.WriteString("## Plan\n\n")
	if p.Instruction != "" {
		fmt.Fprintf(&b, "> %s\n\n", p.Instruction)
	}
	for i, step := range p.Steps {
		fmt.Fprintf(&b, "%d. **%s** %s\n", i+1, step.Action, markdownDetail(step))
	}
	return b.String()
}

func markdownDetail(s Step) string {
	switch s.Action {
	case ActionClick:
		return s.Target
	case ActionType:
		detail := fmt.Sprintf("`%s`", s.Text)
		if s.Loop {
			detail += " (repeated)"
		}
		return detail
	case ActionPress:
		return fmt.Sprintf("`%s`", s.Key)
	case ActionWait:
		return fmt.Sprintf("%gs", s.WaitDuration().Seconds())
	default:
		return ""
	}
}

// ParsePlan decodes the first '[' through the last ']' of raw as a list of
// steps and validates the result
func ParsePlan(raw string) (Plan, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end < start {
		return Plan{}, fmt.Errorf("%w: no JSON array in planner response", domain.ErrPlanning)
	}

	var steps []Step
	if err := json.Unmarshal([]byte(raw[start:end+1]), &steps); err != nil {
		return Plan{}, fmt.Errorf("%w: failed to decode plan: %v", domain.ErrPlanning, err)
	}

	p := Plan{Steps: steps}
	if err := p.Validate(); err != nil {
		return Plan{}, err
	}
	return p, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
