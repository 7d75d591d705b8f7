package analysis

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// candidate mirrors Response with presence-aware fields so that a missing
// required field can be told apart from a zero value.
type candidate struct {
	OK              *bool                 `json:"ok"`
	Task            *string               `json:"task"`
	RiskLevel       *string               `json:"risk_level"`
	Findings        []candidateFinding    `json:"findings"`
	Recommendations []candidateReco       `json:"recommendations"`
	Score           *float64              `json:"score"`
	Actions         []candidateAction     `json:"actions"`
	Notes           *string               `json:"notes"`
	hasFindings     bool
	hasRecos        bool
	hasActions      bool
}

type candidateFinding struct {
	Title      *string  `json:"title"`
	Evidence   *string  `json:"evidence"`
	Confidence *float64 `json:"confidence"`
}

type candidateReco struct {
	Action       *string  `json:"action"`
	Impact       *string  `json:"impact"`
	EstSavingUSD *float64 `json:"est_saving_usd"`
}

type candidateAction struct {
	Type           *string `json:"type"`
	Reason         *string `json:"reason"`
	EventID        *string `json:"event_id"`
	Classification *string `json:"classification"`
}

func validRiskLevel(s string) bool {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical, RiskUnknown:
		return true
	}
	return false
}

func validActionType(s string) bool {
	switch ActionType(s) {
	case ActionBlock, ActionQuarantine, ActionIgnore, ActionOptimize, ActionAlert:
		return true
	}
	return false
}

func validClassification(s string) bool {
	switch Classification(s) {
	case ClassSafe, ClassSuspicious, ClassMalicious:
		return true
	}
	return false
}

// ValidateResponse checks a parsed model output against the task's response
// shape and converts it into a Response. It fails closed: any missing
// required field, wrong type or out-of-range value yields a SchemaError
// listing every violation. Nothing is coerced or dropped.
func ValidateResponse(task Task, raw json.RawMessage) (*Response, error) {
	var c candidate
	if err := json.Unmarshal(raw, &c); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, &SchemaError{Task: task, Violations: []Violation{
				{Field: typeErr.Field, Message: "unexpected type " + typeErr.Value},
			}}
		}
		return nil, &SchemaError{Task: task, Violations: []Violation{
			{Field: "", Message: err.Error()},
		}}
	}

	// Distinguish absent arrays from empty ones.
	var presence map[string]json.RawMessage
	if err := json.Unmarshal(raw, &presence); err == nil {
		_, c.hasFindings = presence["findings"]
		_, c.hasRecos = presence["recommendations"]
		_, c.hasActions = presence["actions"]
	}

	var vs []Violation

	if c.OK == nil {
		vs = append(vs, Violation{"ok", "is required"})
	}
	if c.Task == nil {
		vs = append(vs, Violation{"task", "is required"})
	} else if Task(*c.Task) != task {
		vs = append(vs, Violation{"task", fmt.Sprintf("must be %q", task)})
	}
	if c.RiskLevel != nil && !validRiskLevel(*c.RiskLevel) {
		vs = append(vs, Violation{"risk_level", "must be one of low, medium, high, critical, unknown"})
	}
	if c.Score != nil && (*c.Score != math.Trunc(*c.Score) || *c.Score < 0 || *c.Score > 100) {
		vs = append(vs, Violation{"score", "must be an integer between 0 and 100"})
	}

	switch task {
	case TaskClimate, TaskBusiness:
		if c.RiskLevel == nil {
			vs = append(vs, Violation{"risk_level", "is required"})
		}
		if !c.hasFindings {
			vs = append(vs, Violation{"findings", "is required"})
		}
		if !c.hasRecos {
			vs = append(vs, Violation{"recommendations", "is required"})
		}
		if task == TaskBusiness && c.Score == nil {
			vs = append(vs, Violation{"score", "is required"})
		}
	case TaskCyber:
		if !c.hasActions {
			vs = append(vs, Violation{"actions", "is required"})
		}
		if !c.hasFindings {
			vs = append(vs, Violation{"findings", "is required"})
		}
	default:
		vs = append(vs, Violation{"task", fmt.Sprintf("unknown task %q", task)})
	}

	for i, f := range c.Findings {
		path := fmt.Sprintf("findings[%d]", i)
		if f.Title == nil {
			vs = append(vs, Violation{path + ".title", "is required"})
		}
		if f.Evidence == nil {
			vs = append(vs, Violation{path + ".evidence", "is required"})
		}
		if f.Confidence == nil {
			vs = append(vs, Violation{path + ".confidence", "is required"})
		} else if *f.Confidence < 0 || *f.Confidence > 1 {
			vs = append(vs, Violation{path + ".confidence", "must be between 0 and 1"})
		}
	}

	for i, r := range c.Recommendations {
		path := fmt.Sprintf("recommendations[%d]", i)
		if r.Action == nil {
			vs = append(vs, Violation{path + ".action", "is required"})
		}
		if r.Impact == nil {
			vs = append(vs, Violation{path + ".impact", "is required"})
		}
		if r.EstSavingUSD == nil {
			vs = append(vs, Violation{path + ".est_saving_usd", "is required"})
		} else if *r.EstSavingUSD < 0 {
			vs = append(vs, Violation{path + ".est_saving_usd", "must not be negative"})
		}
	}

	for i, a := range c.Actions {
		path := fmt.Sprintf("actions[%d]", i)
		if a.Type == nil {
			vs = append(vs, Violation{path + ".type", "is required"})
		} else if !validActionType(*a.Type) {
			vs = append(vs, Violation{path + ".type", "must be one of block, quarantine, ignore, optimize, alert"})
		}
		if a.Reason == nil {
			vs = append(vs, Violation{path + ".reason", "is required"})
		}
		if a.Classification != nil && !validClassification(*a.Classification) {
			vs = append(vs, Violation{path + ".classification", "must be one of safe, suspicious, malicious"})
		}
	}

	if len(vs) > 0 {
		return nil, &SchemaError{Task: task, Violations: vs}
	}

	resp := &Response{OK: *c.OK, Task: task}
	if c.RiskLevel != nil {
		resp.RiskLevel = RiskLevel(*c.RiskLevel)
	}
	if c.Notes != nil {
		resp.Notes = *c.Notes
	}
	if c.Score != nil {
		score := int(*c.Score)
		resp.Score = &score
	}
	if c.hasFindings {
		resp.Findings = make([]Finding, len(c.Findings))
		for i, f := range c.Findings {
			resp.Findings[i] = Finding{Title: *f.Title, Evidence: *f.Evidence, Confidence: *f.Confidence}
		}
	}
	if c.hasRecos {
		resp.Recommendations = make([]Recommendation, len(c.Recommendations))
		for i, r := range c.Recommendations {
			resp.Recommendations[i] = Recommendation{Action: *r.Action, Impact: *r.Impact, EstSavingUSD: *r.EstSavingUSD}
		}
	}
	if c.hasActions {
		resp.Actions = make([]Action, len(c.Actions))
		for i, a := range c.Actions {
			act := Action{Type: ActionType(*a.Type), Reason: *a.Reason}
			if a.EventID != nil {
				act.EventID = *a.EventID
			}
			if a.Classification != nil {
				act.Classification = Classification(*a.Classification)
			}
			resp.Actions[i] = act
		}
	}
	return resp, nil
}
