package tasks

import (
	"fmt"
	"time"

	"github.com/desertthunder/songalchemy/internal/models"
)

// Prompt material for surprise generation. The timestamp baked into the
// prompt keeps repeated surprises from hitting a provider cache.

var surpriseSeeds = [...]string{
	"A late night drive through the city",
	"A sunrise hike in the mountains",
	"A rainy Sunday afternoon with coffee",
	"An energetic morning workout",
	"A road trip along the coast",
	"A cozy evening by the fireplace",
	"A house party that goes until dawn",
	"A focused deep work session",
	"A lazy summer picnic in the park",
	"A nostalgic trip back to the 90s",
	"A slow dance in the kitchen",
	"A train ride through the countryside",
	"Cleaning the apartment with the windows open",
	"A rooftop hangout at golden hour",
	"Getting ready for a big night out",
}

var surpriseGenres = [...]string{
	"indie rock", "synthpop", "jazz", "lo-fi hip hop", "soul", "funk",
	"house", "folk", "R&B", "disco", "alternative", "electronic",
	"pop punk", "reggae", "blues", "country", "ambient", "latin pop",
	"garage rock",
}

var surpriseMoods = [...]string{
	"dreamy", "upbeat", "melancholic", "euphoric", "chill", "moody",
	"romantic", "rebellious", "wistful", "triumphant", "groovy", "mellow",
	"fiery", "hopeful", "bittersweet", "carefree", "mysterious",
	"cinematic", "playful", "warm",
}

// surpriseRequest synthesizes a randomized generation request. Pool picks mix
// the clock with the rng so back-to-back surprises diverge.
func (e *GenerateEngine) surpriseRequest(size int, withTuning bool) GenerateRequest {
	timestamp := time.Now().UnixMilli()

	pick := func(n int) int {
		return int((timestamp + int64(e.rng.Intn(1000))) % int64(n))
	}

	seed := surpriseSeeds[pick(len(surpriseSeeds))]
	genre := surpriseGenres[pick(len(surpriseGenres))]
	mood := surpriseMoods[pick(len(surpriseMoods))]

	prompt := fmt.Sprintf(
		"%s with a %s %s vibe. Focus exclusively on songs with vocals - no instrumentals, podcasts, or spoken word content. Timestamp: %d",
		seed, mood, genre, timestamp,
	)

	req := GenerateRequest{Prompt: prompt, Size: size}

	if withTuning {
		req.Tuning = &models.Tuning{
			Acoustic:  e.rng.Float64(),
			Energetic: e.rng.Float64(),
			Happy:     e.rng.Float64(),
			Danceable: e.rng.Float64(),
			// capped so surprises lean toward deep cuts
			Popular: e.rng.Float64() * 0.7,
		}
	}

	return req
}
