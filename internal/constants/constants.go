package constants

import "time"

var APIConfig = struct {
	PokeAPIBaseURL   string
	PokeAPITimeout   time.Duration
	UserAgent        string
	DefaultListLimit int
	RatePerSecond    float64
	RateBurst        int
}{
	PokeAPIBaseURL:   "https://pokeapi.co/api/v2/pokemon/",
	PokeAPITimeout:   10 * time.Second,
	UserAgent:        "pokeapi-artwork-go/1.0",
	DefaultListLimit: 100000, // large enough to mean "all"
	RatePerSecond:    5,
	RateBurst:        5,
}

var CacheTTL = struct {
	PokemonInfo time.Duration
}{
	PokemonInfo: 60 * time.Minute,
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
	KeyPrefix    string
}{
	ReadyTimeout: 5 * time.Second,
	KeyPrefix:    "pokeapi:pokemon:",
}

var FileConfig = struct {
	DirPermissions  uint32
	FilePermissions uint32
	ArtworkDir      string
}{
	DirPermissions:  0o755,
	FilePermissions: 0o644,
	ArtworkDir:      "artwork",
}
