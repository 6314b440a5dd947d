package models

type BettingPlatform struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

var bettingPlatforms = []BettingPlatform{
	{Name: "ilobet", URL: "https://www.ilobet.com"},
	{Name: "BangBet", URL: "https://www.bangbet.com"},
	{Name: "1xBet", URL: "https://1xbet.com"},
	{Name: "Betway", URL: "https://www.betway.com"},
	{Name: "Bet365", URL: "https://www.bet365.com"},
}

// BettingPlatforms returns a copy of the recommended bookmakers.
func BettingPlatforms() []BettingPlatform {
	out := make([]BettingPlatform, len(bettingPlatforms))
	copy(out, bettingPlatforms)
	return out
}
