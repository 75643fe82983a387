package utils

import (
	"fmt"
	"math/rand"

	"github.com/Pallinder/go-randomdata"
)

// RandomNameGenerator hands out unique display names for spawned
// components. Deterministic seeding keeps names stable across sessions.
type RandomNameGenerator map[string]struct{}

func (rng *RandomNameGenerator) RandomName() string {
	if *rng == nil {
		*rng = make(map[string]struct{})
		randomdata.CustomRand(rand.New(rand.NewSource(0)))
	}
	for {
		name := randomdata.SillyName()
		if _, exists := (*rng)[name]; !exists {
			(*rng)[name] = struct{}{}
			return name
		}
	}
}

// DisplayName prefixes the random name with the component kind, e.g.
// "Model Lightningdata".
func (rng *RandomNameGenerator) DisplayName(prefix string) string {
	return fmt.Sprintf("%s %s", prefix, rng.RandomName())
}
