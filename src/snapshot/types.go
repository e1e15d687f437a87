package snapshot

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/daoscope/snapvote/src/gov"
)

// DefaultGraphQLURL is the public Snapshot hub GraphQL endpoint.
const DefaultGraphQLURL = "https://hub.snapshot.org/graphql"

const defaultPageSize = 1000

// AxisCreated and AxisUpdated are the two timestamp dimensions the feed can
// be paginated along.
const (
	AxisCreated = "created"
	AxisUpdated = "updated"
)

const proposalsQueryTemplate = `
query Proposals($first: Int!, $start: Int!) {
  proposals(
    first: $first
    where: { AXIS_gt: $start }
    orderBy: "AXIS"
    orderDirection: asc
  ) {
    id
    ipfs
    space {
      id
      name
      avatar
      network
      admins
      moderators
      symbol
      terms
    }
    type
    title
    body
    discussion
    author
    quorum
    quorumType
    start
    end
    snapshot
    choices
    labels
    scores
    scores_total
    scores_state
    state
    strategies {
      name
      params
      network
    }
    created
    updated
    votes
    privacy
    plugins
    flagged
  }
}
`

func proposalsQuery(axis string) string {
	return strings.ReplaceAll(proposalsQueryTemplate, "AXIS", axis)
}

// rawProposal is one feed item as the hub returns it. Numeric-or-string
// fields (quorum, scores_total, votes) stay raw until normalized.
type rawProposal struct {
	ID          string          `json:"id"`
	IPFS        string          `json:"ipfs"`
	Space       json.RawMessage `json:"space"`
	Type        string          `json:"type"`
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	Discussion  string          `json:"discussion"`
	Author      string          `json:"author"`
	Quorum      json.RawMessage `json:"quorum"`
	QuorumType  string          `json:"quorumType"`
	Start       int64           `json:"start"`
	End         int64           `json:"end"`
	Snapshot    string          `json:"snapshot"`
	Choices     json.RawMessage `json:"choices"`
	Labels      json.RawMessage `json:"labels"`
	Scores      json.RawMessage `json:"scores"`
	ScoresTotal json.RawMessage `json:"scores_total"`
	ScoresState string          `json:"scores_state"`
	State       string          `json:"state"`
	Strategies  json.RawMessage `json:"strategies"`
	Created     int64           `json:"created"`
	Updated     int64           `json:"updated"`
	Votes       json.RawMessage `json:"votes"`
	Privacy     string          `json:"privacy"`
	Plugins     json.RawMessage `json:"plugins"`
	Flagged     bool            `json:"flagged"`
}

func (r rawProposal) axisValue(axis string) int64 {
	if axis == AxisUpdated {
		return r.Updated
	}
	return r.Created
}

func (r rawProposal) toProposal() gov.Proposal {
	return gov.Proposal{
		ID:          r.ID,
		IPFS:        r.IPFS,
		Space:       datatypes.JSON(r.Space),
		Type:        r.Type,
		Title:       r.Title,
		Body:        r.Body,
		Discussion:  r.Discussion,
		Author:      r.Author,
		Quorum:      numberOrString(r.Quorum),
		QuorumType:  r.QuorumType,
		Start:       unixTime(r.Start),
		End:         unixTime(r.End),
		Snapshot:    r.Snapshot,
		Choices:     datatypes.JSON(r.Choices),
		Labels:      datatypes.JSON(r.Labels),
		Scores:      datatypes.JSON(r.Scores),
		ScoresTotal: numberOrString(r.ScoresTotal),
		ScoresState: r.ScoresState,
		State:       r.State,
		Strategies:  datatypes.JSON(r.Strategies),
		Created:     unixTime(r.Created),
		Updated:     unixTime(r.Updated),
		Votes:       numberOrString(r.Votes),
		Privacy:     r.Privacy,
		Plugins:     datatypes.JSON(r.Plugins),
		Flagged:     r.Flagged,
	}
}

func unixTime(ts int64) time.Time {
	if ts <= 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}

// numberOrString normalizes a feed field that may arrive as either a JSON
// number or a string. Anything else collapses to "0".
func numberOrString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "0"
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return "0"
}
