package lichess

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

func (c *Client) AcceptChallenge(ctx context.Context, id string) error {
	req, err := c.newRequest(ctx, "POST", "/api/challenge/"+url.PathEscape(id)+"/accept", nil)
	if err != nil {
		return err
	}

	return c.doEmptyRequest(req)
}

// DeclineChallenge declines with one of the lichess decline reasons ("generic", "variant", ...).
// An empty reason lets lichess pick.
func (c *Client) DeclineChallenge(ctx context.Context, id, reason string) error {
	var params url.Values
	if reason != "" {
		params = url.Values{"reason": {reason}}
	}
	req, err := c.newRequest(ctx, "POST", "/api/challenge/"+url.PathEscape(id)+"/decline", params)
	if err != nil {
		return err
	}

	return c.doEmptyRequest(req)
}

type AIChallenge struct {
	Level   int    // stockfish level, 1-8
	Color   string // "white", "black" or "random"
	Variant string
}

var DefaultAIChallenge = AIChallenge{Level: 2, Color: "white", Variant: StandardVariant}

type aiChallengeResponse struct {
	ID   string `json:"id"`
	Game struct {
		ID string `json:"id"`
	} `json:"game"`
}

// ChallengeAI starts a game against the lichess AI and returns the game identifier.
func (c *Client) ChallengeAI(ctx context.Context, challenge AIChallenge) (string, error) {
	if challenge.Level < 1 || challenge.Level > 8 {
		return "", errors.New("lichess: ai level must be between 1 and 8")
	}
	if challenge.Color == "" {
		challenge.Color = DefaultAIChallenge.Color
	}
	if challenge.Variant == "" {
		challenge.Variant = DefaultAIChallenge.Variant
	}

	params := url.Values{
		"level":   {strconv.Itoa(challenge.Level)},
		"color":   {challenge.Color},
		"variant": {challenge.Variant},
	}
	req, err := c.newRequest(ctx, "POST", "/api/challenge/ai", params)
	if err != nil {
		return "", err
	}

	res := aiChallengeResponse{}
	err = c.doJSONRequest(req, &res)
	if err != nil {
		return "", err
	}

	id := res.ID
	if id == "" {
		id = res.Game.ID
	}
	if id == "" {
		return "", errors.New("lichess: ai challenge response has no game id")
	}
	return id, nil
}
