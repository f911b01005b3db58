package lichess

import (
	"context"
	"encoding/json"
	"net/http"
)

type EventType int

const (
	UnknownEventType    EventType = 0
	ChallengeEventType  EventType = 1
	GameStartEventType  EventType = 2
	GameFinishEventType EventType = 3
)

type Challenge struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Rated  bool   `json:"rated"`
	Color  string `json:"color"`
	Speed  string `json:"speed"`

	Challenger User `json:"challenger"`
	DestUser   User `json:"destUser"`

	Variant Variant `json:"variant"`

	TimeControl struct {
		Type      string `json:"type"`
		Limit     int64  `json:"limit"`
		Increment int64  `json:"increment"`
	} `json:"timeControl"`
}

type ChallengeEvent struct {
	Type      string    `json:"type"`
	Challenge Challenge `json:"challenge"`
}

type EventGame struct {
	ID       string `json:"id"`
	GameID   string `json:"gameId"`
	Color    string `json:"color"`
	Fen      string `json:"fen"`
	IsMyTurn bool   `json:"isMyTurn"`
}

// Lichess has sent the game identifier under both names.
func (g EventGame) Identifier() string {
	if g.GameID != "" {
		return g.GameID
	}
	return g.ID
}

type GameStartEvent struct {
	Type string    `json:"type"`
	Game EventGame `json:"game"`
}

type GameFinishEvent struct {
	Type string    `json:"type"`
	Game EventGame `json:"game"`
}

type EventMessage struct {
	Type EventType
	Data any
}

type typeHeader struct {
	Type string `json:"type"`
}

func (msg *EventMessage) UnmarshalJSON(bytes []byte) error {
	var header typeHeader
	err := json.Unmarshal(bytes, &header)
	if err != nil {
		return err
	}

	switch header.Type {
	case "challenge":
		var challenge ChallengeEvent
		err = json.Unmarshal(bytes, &challenge)
		if err != nil {
			return err
		}

		msg.Type = ChallengeEventType
		msg.Data = challenge

	case "gameStart":
		var gameStart GameStartEvent
		err = json.Unmarshal(bytes, &gameStart)
		if err != nil {
			return err
		}

		msg.Type = GameStartEventType
		msg.Data = gameStart

	case "gameFinish":
		var gameFinish GameFinishEvent
		err = json.Unmarshal(bytes, &gameFinish)
		if err != nil {
			return err
		}

		msg.Type = GameFinishEventType
		msg.Data = gameFinish

	default:
		msg.Type = UnknownEventType
		msg.Data = header
	}

	return nil
}

// StreamEvents opens the account's event stream. The channel is closed when the stream
// ends, fails or the context is done.
func (c *Client) StreamEvents(ctx context.Context) (<-chan EventMessage, error) {
	req, err := c.newRequest(ctx, "GET", "/api/stream/event", nil)
	if err != nil {
		return nil, err
	}

	return stream[EventMessage](ctx, c, req)
}

// Decode the ndjson body of the response into a channel. Keep-alive blank lines are
// whitespace to the decoder, so they never produce a message.
func stream[T any](ctx context.Context, c *Client, req *http.Request) (<-chan T, error) {
	req.Header.Set("Accept", "application/x-ndjson")
	res, err := c.doRequest(req)
	if err != nil {
		return nil, err
	}

	ch := make(chan T)
	go func() {
		defer res.Body.Close()
		defer close(ch)
		decoder := json.NewDecoder(res.Body)

		for decoder.More() {
			var msg T
			err := decoder.Decode(&msg)
			if err != nil {
				if ctx.Err() == nil {
					c.logger.Error().Err(err).Str("url", req.URL.Path).Msg("stream-decode-failed")
				}
				return
			}

			select {
			case ch <- msg:
			case <-ctx.Done():
				return
			}
		}
		c.logger.Debug().Str("url", req.URL.Path).Msg("stream-closed")
	}()

	return ch, nil
}
