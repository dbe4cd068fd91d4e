package distractions

import "time"

type State string

const (
	StateActive    = State("active")
	StateCaught    = State("caught")
	StateExpired   = State("expired")
	StateDismissed = State("dismissed")
)

// Distraction is one on-screen stimulus: a notification card on iOS, a
// catchable hologram on visionOS.
type Distraction struct {
	ID        int       `json:"id"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Title     string    `json:"title"`
	Icon      string    `json:"icon"`
	Color     string    `json:"color"`
	SpawnedAt time.Time `json:"spawned_at"`
	State     State     `json:"state"`
}

// Content is a title/icon pairing for a spawned distraction. Color is
// randomized per spawn.
type Content struct {
	Title string
	Icon  string
}

var Contents = []Content{
	{Title: "New Message", Icon: "message"},
	{Title: "You've Got Mail", Icon: "envelope"},
	{Title: "Meeting in 5 minutes", Icon: "calendar"},
	{Title: "Someone liked your photo", Icon: "heart"},
	{Title: "Breaking News", Icon: "newspaper"},
	{Title: "Your order has shipped", Icon: "shippingbox"},
	{Title: "Low Battery", Icon: "battery"},
	{Title: "Screen Time Report", Icon: "hourglass"},
}
