package lichess

type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Title  string `json:"title"`
	Rating int64  `json:"rating"`

	Online  bool `json:"online"`
	AILevel int  `json:"aiLevel"` // set for stockfish opponents
}

type Clock struct {
	Initial   int64 `json:"initial"` // ms
	Increment int64 `json:"increment"`
}

type Variant struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

const StandardVariant = "standard"
