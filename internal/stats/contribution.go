package stats

// Standard football scoring.
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// TeamSide identifies which side of a match a player played for.
type TeamSide string

const (
	TeamA TeamSide = "A"
	TeamB TeamSide = "B"
)

// Valid reports whether the side is one a contribution can be computed for.
// Records with any other value are excluded from aggregation.
func (t TeamSide) Valid() bool {
	return t == TeamA || t == TeamB
}

// Outcome is the result of a match from one team's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeDraw Outcome = "draw"
	OutcomeLoss Outcome = "loss"
)

// OutcomeForTeam derives the outcome for a side given the final scores.
func OutcomeForTeam(scoreA, scoreB int, team TeamSide) Outcome {
	if scoreA == scoreB {
		return OutcomeDraw
	}
	if team == TeamA {
		if scoreA > scoreB {
			return OutcomeWin
		}
		return OutcomeLoss
	}
	if scoreB > scoreA {
		return OutcomeWin
	}
	return OutcomeLoss
}

// Contribution is the normalized per-match statistical effect of one
// player's participation. The same shape is used for season totals; totals
// are just the field-wise sum of every contribution ever applied.
type Contribution struct {
	MatchesPlayed    int `json:"matchesPlayed"`
	Wins             int `json:"wins"`
	Draws            int `json:"draws"`
	Losses           int `json:"losses"`
	Goals            int `json:"goals"`
	Assists          int `json:"assists"`
	YellowCards      int `json:"yellowCards"`
	RedCards         int `json:"redCards"`
	Points           int `json:"points"`
	GoalInvolvements int `json:"goalInvolvements"`
}

// RawStats are the counted events recorded for a player in one match.
type RawStats struct {
	Team        TeamSide
	Goals       int
	Assists     int
	YellowCards int
	RedCards    int
}

// BuildContribution maps a raw stat record plus the match's final scores
// into a contribution vector. Pure and deterministic; callers must have
// already excluded records with an invalid team side.
func BuildContribution(raw RawStats, scoreA, scoreB int) Contribution {
	oc := OutcomeForTeam(scoreA, scoreB, raw.Team)

	c := Contribution{
		MatchesPlayed:    1,
		Goals:            raw.Goals,
		Assists:          raw.Assists,
		YellowCards:      raw.YellowCards,
		RedCards:         raw.RedCards,
		GoalInvolvements: raw.Goals + raw.Assists,
	}

	switch oc {
	case OutcomeWin:
		c.Wins = 1
		c.Points = PointsWin
	case OutcomeDraw:
		c.Draws = 1
		c.Points = PointsDraw
	case OutcomeLoss:
		c.Losses = 1
		c.Points = PointsLoss
	}
	return c
}

// Add returns the field-wise sum of two vectors.
func (c Contribution) Add(o Contribution) Contribution {
	return Contribution{
		MatchesPlayed:    c.MatchesPlayed + o.MatchesPlayed,
		Wins:             c.Wins + o.Wins,
		Draws:            c.Draws + o.Draws,
		Losses:           c.Losses + o.Losses,
		Goals:            c.Goals + o.Goals,
		Assists:          c.Assists + o.Assists,
		YellowCards:      c.YellowCards + o.YellowCards,
		RedCards:         c.RedCards + o.RedCards,
		Points:           c.Points + o.Points,
		GoalInvolvements: c.GoalInvolvements + o.GoalInvolvements,
	}
}

// Sub returns the field-wise difference c - o.
func (c Contribution) Sub(o Contribution) Contribution {
	return Contribution{
		MatchesPlayed:    c.MatchesPlayed - o.MatchesPlayed,
		Wins:             c.Wins - o.Wins,
		Draws:            c.Draws - o.Draws,
		Losses:           c.Losses - o.Losses,
		Goals:            c.Goals - o.Goals,
		Assists:          c.Assists - o.Assists,
		YellowCards:      c.YellowCards - o.YellowCards,
		RedCards:         c.RedCards - o.RedCards,
		Points:           c.Points - o.Points,
		GoalInvolvements: c.GoalInvolvements - o.GoalInvolvements,
	}
}

// IsZero reports whether every field is zero, i.e. applying the vector as a
// delta would not change any total.
func (c Contribution) IsZero() bool {
	return c == Contribution{}
}
