package gov

import (
	"time"

	"gorm.io/datatypes"
)

// Proposal mirrors a Snapshot.org proposal. The nested feed documents
// (space, choices, scores, strategies, plugins) are kept as opaque JSON
// because their shape is not contractually fixed by the hub.
type Proposal struct {
	ID          string         `gorm:"primaryKey;size:128" json:"id"`
	IPFS        string         `gorm:"column:ipfs;size:128" json:"ipfs"`
	Space       datatypes.JSON `gorm:"column:space" json:"space"`
	Type        string         `gorm:"size:64" json:"type"`
	Title       string         `gorm:"type:text" json:"title"`
	Body        string         `gorm:"type:longtext" json:"body"`
	Discussion  string         `gorm:"type:text" json:"discussion"`
	Author      string         `gorm:"size:128" json:"author"`
	Quorum      string         `gorm:"size:64" json:"quorum"`
	QuorumType  string         `gorm:"size:32" json:"quorum_type"`
	Start       time.Time      `gorm:"column:start;index" json:"start"`
	End         time.Time      `gorm:"column:end;index" json:"end"`
	Snapshot    string         `gorm:"size:64" json:"snapshot"`
	Choices     datatypes.JSON `json:"choices"`
	Labels      datatypes.JSON `json:"labels"`
	Scores      datatypes.JSON `json:"scores"`
	ScoresTotal string         `gorm:"size:64" json:"scores_total"`
	ScoresState string         `gorm:"size:32" json:"scores_state"`
	State       string         `gorm:"size:32;index" json:"state"`
	Strategies  datatypes.JSON `json:"strategies"`
	Created     time.Time      `gorm:"index" json:"created"`
	Updated     time.Time      `gorm:"index" json:"updated"`
	Votes       string         `gorm:"size:64" json:"votes"`
	Privacy     string         `gorm:"size:32" json:"privacy"`
	Plugins     datatypes.JSON `json:"plugins"`
	Flagged     bool           `json:"flagged"`
}

func (Proposal) TableName() string { return "proposals" }

// VolatileColumns are the columns refreshed on every sync. Everything else
// is fixed at first insert; a conflicting upsert must not touch it.
var VolatileColumns = []string{
	"space",
	"state",
	"discussion",
	"scores",
	"scores_total",
	"scores_state",
	"votes",
	"updated",
}

// Recommendation is an AI-generated assessment of a proposal. Rows are
// append-only; the newest created_at wins as the current recommendation.
// NewFlag marks a row not yet handed to the vote bot.
type Recommendation struct {
	ID                            string         `gorm:"primaryKey;size:36" json:"-"`
	ProposalID                    string         `gorm:"size:128;index;not null" json:"proposalId"`
	TechnicalImpact               datatypes.JSON `json:"technicalImpact"`
	EconomicConsequences          datatypes.JSON `json:"economicConsequences"`
	GovernanceAndDecentralization datatypes.JSON `json:"governanceAndDecentralization"`
	Advantages                    datatypes.JSON `json:"advantages"`
	Risks                         datatypes.JSON `json:"risks"`
	Recommendation                datatypes.JSON `json:"recommendation"`
	CreatedAt                     time.Time      `json:"createdAt"`
	NewFlag                       bool           `gorm:"column:new_flag;default:true" json:"-"`
}

func (Recommendation) TableName() string { return "recommendations" }
