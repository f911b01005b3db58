package lichess

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
)

type GameStateType int

const (
	UnknownGameStateType   GameStateType = 0
	GameFullGameStateType  GameStateType = 1
	GameStateGameStateType GameStateType = 2
	ChatLineGameStateType  GameStateType = 3
)

type GameFullGameState struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Rated bool   `json:"rated"`

	White   User    `json:"white"`
	Black   User    `json:"black"`
	Variant Variant `json:"variant"`
	Clock   Clock   `json:"clock"`

	InitialFen string             `json:"initialFen"`
	State      GameStateGameState `json:"state"`
}

type GameStateGameState struct {
	Type   string `json:"type"`
	Moves  string `json:"moves"` // space separated UCI
	Status string `json:"status"`
	Winner string `json:"winner"`

	WTime int64 `json:"wtime"` // ms
	WInc  int64 `json:"winc"`

	BTime int64 `json:"btime"` // ms
	BInc  int64 `json:"binc"`
}

// Moves played so far, in UCI.
func (gs *GameStateGameState) MoveList() []string {
	return strings.Fields(gs.Moves)
}

type ChatLineGameState struct {
	Type     string `json:"type"`
	Username string `json:"username"`
	Text     string `json:"text"`
	Room     string `json:"room"`
}

type GameStateMessage struct {
	Type GameStateType
	Data any
}

func (msg *GameStateMessage) UnmarshalJSON(bytes []byte) error {
	var header typeHeader
	err := json.Unmarshal(bytes, &header)
	if err != nil {
		return err
	}

	switch header.Type {
	case "gameFull":
		var gameFull GameFullGameState
		err = json.Unmarshal(bytes, &gameFull)
		if err != nil {
			return err
		}

		msg.Type = GameFullGameStateType
		msg.Data = gameFull

	case "gameState":
		var gameState GameStateGameState
		err = json.Unmarshal(bytes, &gameState)
		if err != nil {
			return err
		}

		msg.Type = GameStateGameStateType
		msg.Data = gameState

	case "chatLine":
		var chatLine ChatLineGameState
		err = json.Unmarshal(bytes, &chatLine)
		if err != nil {
			return err
		}

		msg.Type = ChatLineGameStateType
		msg.Data = chatLine

	default:
		msg.Type = UnknownGameStateType
		msg.Data = header
	}

	return nil
}

// StreamGameState opens the bot game stream of the given game. The first message is
// always the full game.
func (c *Client) StreamGameState(ctx context.Context, id string) (<-chan GameStateMessage, error) {
	req, err := c.newRequest(ctx, "GET", "/api/bot/game/stream/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}

	return stream[GameStateMessage](ctx, c, req)
}

// PostMove plays a move, given in UCI, in a bot game.
func (c *Client) PostMove(ctx context.Context, id, moveUCI string) error {
	apiURL := "/api/bot/game/" + url.PathEscape(id) + "/move/" + url.PathEscape(moveUCI)
	req, err := c.newRequest(ctx, "POST", apiURL, nil)
	if err != nil {
		return err
	}

	return c.doEmptyRequest(req)
}
