package main

import (
	"strings"

	"github.com/elijahnyp/casa_controller/state"
	"github.com/elijahnyp/casa_controller/util"
)

// command is one recognized request action. needle is matched by substring
// containment against the whole payload, the way the original firmware did
// it. "GET " stays in the needle so header content is less likely to trip a
// match, but the latent ambiguity remains: a longer path containing a
// command path as a prefix would still match.
type command struct {
	needle string
	key    string
	apply  func(s *state.Store)
}

// Router maps a raw request payload to at most one store mutation.
type Router struct {
	commands []command
}

// NewRouter builds the command table from the house model, devices first in
// table order, then the indicator side channel. Order matters: the first
// hit wins and nothing else is evaluated.
func NewRouter(house util.HouseModel) *Router {
	r := &Router{}
	for _, dev := range house.Devices {
		key := dev.Key
		r.commands = append(r.commands, command{
			needle: "GET " + dev.Path,
			key:    key,
			apply:  func(s *state.Store) { s.Toggle(state.Device(key)) },
		})
	}
	r.commands = append(r.commands,
		command{
			needle: "GET /on",
			key:    "indicator_on",
			apply:  func(s *state.Store) { s.SetIndicator(true) },
		},
		command{
			needle: "GET /off",
			key:    "indicator_off",
			apply:  func(s *state.Store) { s.SetIndicator(false) },
		},
	)
	return r
}

// Route applies the first matching command to the store and returns its
// key. An unrecognized payload mutates nothing and returns "", which is a
// handled outcome, not a failure.
func (r *Router) Route(payload string, store *state.Store) string {
	for _, c := range r.commands {
		if strings.Contains(payload, c.needle) {
			c.apply(store)
			return c.key
		}
	}
	return ""
}
