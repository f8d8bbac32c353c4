package review

import (
	"context"

	"github.com/hbarrett/planwright/internal/agent"
	"github.com/hbarrett/planwright/internal/errors"
	"github.com/hbarrett/planwright/internal/logging"
	"github.com/hbarrett/planwright/internal/plan"
)

// Presenter shows a plan to the user and returns their decision. The
// default is the Bubbletea UI; tests inject scripted decisions.
type Presenter func(p *plan.Plan) (Decision, error)

// Gate runs the interactive approval loop for the orchestrator. A
// modify decision sends the feedback back through the planner and
// presents the revised plan again, until the user approves or rejects.
type Gate struct {
	planner     agent.Planner
	autoApprove bool
	present     Presenter
	log         *logging.Logger
}

// NewGate creates an approval gate. With autoApprove set the gate
// passes every plan through untouched.
func NewGate(planner agent.Planner, autoApprove bool, log *logging.Logger) *Gate {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Gate{
		planner:     planner,
		autoApprove: autoApprove,
		present:     Run,
		log:         log,
	}
}

// WithPresenter replaces the interactive UI, for tests.
func (g *Gate) WithPresenter(p Presenter) *Gate {
	g.present = p
	return g
}

// ApprovePlan presents the plan and applies the user's decision.
// Rejection returns errors.ErrReviewRejected.
func (g *Gate) ApprovePlan(ctx context.Context, p *plan.Plan) (*plan.Plan, error) {
	if g.autoApprove {
		g.log.Debug("plan auto-approved")
		return p, nil
	}

	current := p
	for {
		decision, err := g.present(current)
		if err != nil {
			return nil, errors.Wrap(err, "plan review")
		}

		switch decision.Action {
		case ActionApprove:
			g.log.Info("plan approved")
			return current, nil

		case ActionModify:
			g.log.Info("plan modification requested", "feedback_chars", len(decision.Feedback))
			revised, err := g.planner.RegeneratePlan(ctx, current, decision.Feedback)
			if err != nil {
				// A failed revision keeps the current plan on the
				// table; the user can approve, retry, or reject it.
				g.log.Warn("plan revision failed, keeping current plan", "error", err)
				continue
			}
			current = revised

		default:
			g.log.Info("plan rejected")
			return nil, errors.NewPlanError("plan rejected by user", errors.ErrReviewRejected)
		}
	}
}
