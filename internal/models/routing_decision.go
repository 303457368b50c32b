package models

import "time"

// RoutingDecision is the audit record persisted for every routing
// recommendation the orchestrator makes.
type RoutingDecision struct {
	ID                 uint   `gorm:"primarykey"`
	RoutingRef         string `gorm:"uniqueIndex;not null"`
	UserID             uint   `gorm:"index;not null"`
	DecisionType       string
	SelectedWallet     string
	RoutingReason      string
	TotalAmount        float64
	MonayFeeEstimate   float64
	CircleFeeEstimate  float64
	MonayTimeEstimate  float64
	CircleTimeEstimate float64
	ScoreMonay         float64
	ScoreCircle        float64
	Factors            JSON `gorm:"type:jsonb"`
	CreatedAt          time.Time
}
