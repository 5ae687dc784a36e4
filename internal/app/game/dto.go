package game

import (
	"hearthfield/internal/app/action"
	"hearthfield/internal/app/techtree"
	"hearthfield/internal/domain/forage"
)

type ActionRequest struct {
	Resource string `json:"resource"`
	Action   string `json:"action"`
}

type ActionResponse struct {
	Result action.Result   `json:"result"`
	State  forage.Snapshot `json:"state"`
}

type UnlockRequest struct {
	TechID string `json:"tech_id"`
}

type UnlockResponse struct {
	Result techtree.UnlockResult `json:"result"`
	State  forage.Snapshot       `json:"state"`
}

type TickRequest struct {
	Count int `json:"count"`
}

type TickResponse struct {
	Tick    int64 `json:"tick"`
	Matured bool  `json:"matured"`
}

type StatusResponse struct {
	SessionID        string             `json:"session_id"`
	State            forage.Snapshot    `json:"state"`
	AvailableActions []forage.ActionKey `json:"available_actions"`
}

type TechnologiesResponse struct {
	Offers   []techtree.Offer `json:"offers"`
	Unlocked []forage.TechID  `json:"unlocked"`
	Revealed []forage.TechID  `json:"revealed"`
}
