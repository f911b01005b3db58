package lichess

import (
	"context"
	"net/url"
)

type Account struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Title    string  `json:"title"`
	Profile  Profile `json:"profile"`

	Engine   bool `json:"engine"`
	Disabled bool `json:"disabled"`

	CreatedAt int64 `json:"createdAt"`
	SeenAt    int64 `json:"seenAt"`
}

func (account *Account) IsBot() bool {
	return account.Title == "BOT"
}

type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Country   string `json:"country"`
}

func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	req, err := c.newRequest(ctx, "GET", "/api/account", nil)
	if err != nil {
		return nil, err
	}

	res := Account{}
	err = c.doJSONRequest(req, &res)
	return &res, err
}

func (c *Client) GetUser(ctx context.Context, username string) (*Account, error) {
	req, err := c.newRequest(ctx, "GET", "/api/user/"+url.PathEscape(username), nil)
	if err != nil {
		return nil, err
	}

	res := Account{}
	err = c.doJSONRequest(req, &res)
	return &res, err
}

// UpgradeAccount turns the token's account into a bot account. This cannot be undone.
func (c *Client) UpgradeAccount(ctx context.Context) error {
	req, err := c.newRequest(ctx, "POST", "/api/bot/account/upgrade", nil)
	if err != nil {
		return err
	}

	return c.doEmptyRequest(req)
}
