package forage

import (
	"fmt"
	"strings"
	"time"
)

type ResourceID string

// ResourceAll addresses every resource known to the state. Only capacity
// bonuses accept it.
const ResourceAll ResourceID = "all"

const (
	ResourceRocks          ResourceID = "rocks"
	ResourceWildWheat      ResourceID = "wildWheat"
	ResourcePrimitiveWheat ResourceID = "primitiveWheat"
	ResourceSeeds          ResourceID = "seeds"
	ResourceFlour          ResourceID = "flour"
	ResourceBread          ResourceID = "bread"
)

type ActionType string

const (
	ActionHarvest ActionType = "harvest"
	ActionEat     ActionType = "eat"
	ActionFeast   ActionType = "feast"
	ActionPlant   ActionType = "plant"
	ActionGrow    ActionType = "grow"
	ActionGrind   ActionType = "grind"
	ActionBake    ActionType = "bake"
)

func ActionTypes() []ActionType {
	return []ActionType{
		ActionHarvest,
		ActionEat,
		ActionFeast,
		ActionPlant,
		ActionGrow,
		ActionGrind,
		ActionBake,
	}
}

func IsKnownActionType(t ActionType) bool {
	for _, actionType := range ActionTypes() {
		if t == actionType {
			return true
		}
	}
	return false
}

type TechID string

// ActionKey identifies one invokable action on one resource. It renders as
// "<action>_<resource>" in catalogs and JSON.
type ActionKey struct {
	Action   ActionType
	Resource ResourceID
}

func NewActionKey(action ActionType, resource ResourceID) ActionKey {
	return ActionKey{Action: action, Resource: resource}
}

func (k ActionKey) String() string {
	return string(k.Action) + "_" + string(k.Resource)
}

func ParseActionKey(s string) (ActionKey, error) {
	action, resource, ok := strings.Cut(strings.TrimSpace(s), "_")
	if !ok || action == "" || resource == "" {
		return ActionKey{}, fmt.Errorf("invalid action key %q", s)
	}
	return ActionKey{Action: ActionType(action), Resource: ResourceID(resource)}, nil
}

func (k ActionKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ActionKey) UnmarshalText(b []byte) error {
	parsed, err := ParseActionKey(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

type YieldRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

func (r YieldRange) Add(o YieldRange) YieldRange {
	return YieldRange{Min: r.Min + o.Min, Max: r.Max + o.Max}
}

func (r YieldRange) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

type HarvestModifier struct {
	SuccessRateBonus float64    `json:"success_rate_bonus"`
	ExtraYield       YieldRange `json:"extra_yield"`
}

type PlantingState struct {
	Planted       bool  `json:"planted"`
	PlantedAtTick int64 `json:"planted_at_tick"`
	Ready         bool  `json:"ready"`
}

type DomainEvent struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Tick       int64          `json:"tick"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload"`
}
