package services

import "math/rand"

var presenceAdjectives = []string{
	"Swift", "Calm", "Bright", "Eager", "Merry", "Witty", "Brave", "Jolly", "Kind",
}

var presenceNouns = []string{
	"Fox", "Bear", "Owl", "Cat", "Dog", "Lion", "Tiger", "Hawk", "Wolf",
}

var presenceColors = []string{
	"bg-red-500", "bg-orange-500", "bg-amber-500", "bg-yellow-500",
	"bg-lime-500", "bg-green-500", "bg-emerald-500", "bg-teal-500",
	"bg-cyan-500", "bg-sky-500", "bg-blue-500", "bg-indigo-500",
	"bg-violet-500", "bg-purple-500", "bg-fuchsia-500", "bg-pink-500",
	"bg-rose-500",
}

// RandomDisplayName picks an adjective-noun pair for an anonymous session
func RandomDisplayName() string {
	adjective := presenceAdjectives[rand.Intn(len(presenceAdjectives))]
	noun := presenceNouns[rand.Intn(len(presenceNouns))]
	return adjective + " " + noun
}

// RandomColor picks a cursor color for an anonymous session
func RandomColor() string {
	return presenceColors[rand.Intn(len(presenceColors))]
}
