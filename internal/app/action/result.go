package action

import "hearthfield/internal/domain/forage"

type Reason string

const (
	ReasonNone            Reason = ""
	ReasonLocked          Reason = "locked"
	ReasonStarving        Reason = "starving"
	ReasonConditionFailed Reason = "condition_failed"
	ReasonRollFailed      Reason = "roll_failed"
	ReasonEmptyYield      Reason = "empty_yield"
	ReasonNotMature       Reason = "not_mature"
	ReasonNoRecipe        Reason = "no_recipe"
)

// Result reports one dispatch. Performed=false is a normal outcome; Attempted
// separates a failed stochastic roll from a precondition block.
type Result struct {
	Action          forage.ActionKey `json:"action"`
	Performed       bool             `json:"performed"`
	Attempted       bool             `json:"attempted"`
	Amount          int              `json:"amount"`
	Gained          int              `json:"gained"`
	AffectsHunger   bool             `json:"affects_hunger"`
	HungerSpent     int              `json:"hunger_spent"`
	Reason          Reason           `json:"reason,omitempty"`
	FailedCondition string           `json:"failed_condition,omitempty"`
	ViaChain        bool             `json:"via_chain,omitempty"`
	Chained         []Result         `json:"chained,omitempty"`
}
