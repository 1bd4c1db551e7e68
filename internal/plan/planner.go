package plan

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/inference-gateway/gridpilot/internal/domain"
	logger "github.com/inference-gateway/gridpilot/internal/logger"
	zap "go.uber.org/zap"
)

// SystemPrompt tells the planning model which actions exist and how to answer
const SystemPrompt = `You are an expert at automating graphical user interfaces. Turn the user's task into a precise list of steps.

Available actions:
- click: click an element. Requires "target", a visual description of the element ("blue button to compose an email", "search field at the top").
- type: type text. Requires "text". Optional: "loop" (true to type repeatedly), "loop_duration" (seconds, default 5), "delay_between" (seconds between repetitions, default 0.3).
- press: press a key or a combination. Requires "key", e.g. "enter", "tab", "escape", "ctrl+s".
- wait: pause. Requires "seconds".

Rules:
- Describe targets by how they look, not by exact labels you have not seen.
- Follow the natural order of the interface (top to bottom in forms, open before you fill).
- Add a wait after anything that opens a window, dialog or page.
- Use "tab" to move between nearby fields.

Respond with ONLY a JSON array, no other text:
[
  {"action": "click", "target": "visual description of the element"},
  {"action": "wait", "seconds": 1},
  {"action": "type", "text": "content"},
  {"action": "press", "key": "tab"}
]`

// Planner turns a natural-language instruction into a validated plan
type Planner struct {
	model domain.ChatModel
}

// NewPlanner creates a planner backed by model
func NewPlanner(model domain.ChatModel) *Planner {
	return &Planner{model: model}
}

// Plan asks the planning model for steps. Transport failures and unreadable
// replies wrap ErrPlanning; a readable but malformed plan wraps ErrInvalidPlan.
func (p *Planner) Plan(ctx context.Context, instruction string) (Plan, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return Plan{}, fmt.Errorf("%w: empty instruction", domain.ErrPlanning)
	}

	log := logger.L(ctx)
	log.Info("Generating plan", zap.String("instruction", instruction))

	reply, err := p.model.Complete(ctx, SystemPrompt, fmt.Sprintf("Task: %q", instruction))
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %w", domain.ErrPlanning, err)
	}
	log.Debug("Raw plan response", zap.String("reply", reply))

	plan, err := ParsePlan(reply)
	if err != nil {
		return Plan{}, err
	}
	plan.Instruction = instruction

	log.Info("Plan generated", zap.Int("steps", len(plan.Steps)))
	for i, step := range plan.Steps {
		log.Debug("Plan step", zap.Int("step", i+1), zap.Stringer("summary", step))
	}
	return plan, nil
}
