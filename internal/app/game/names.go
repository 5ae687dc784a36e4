package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"hearthfield/internal/domain/forage"
)

var ErrUnknownName = errors.New("unknown name")

// UnknownNameError is returned for a name that matches nothing in the
// catalog. Suggestion is the closest known name, if any is close enough.
type UnknownNameError struct {
	Kind       string
	Name       string
	Suggestion string
}

func (e *UnknownNameError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown %s %q", e.Kind, e.Name)
	}
	return fmt.Sprintf("unknown %s %q (did you mean %q?)", e.Kind, e.Name, e.Suggestion)
}

func (e *UnknownNameError) Unwrap() error {
	return ErrUnknownName
}

// resolveName matches case-insensitively and otherwise suggests the nearest
// candidate within a third of the name's length.
func resolveName(kind, name string, candidates []string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty %s", ErrInvalidRequest, kind)
	}
	for _, c := range candidates {
		if c == name {
			return c, nil
		}
	}
	for _, c := range candidates {
		if strings.EqualFold(c, name) {
			return c, nil
		}
	}
	return "", &UnknownNameError{Kind: kind, Name: name, Suggestion: suggest(name, candidates)}
}

func suggest(name string, candidates []string) string {
	best, bestDist := "", -1
	lower := strings.ToLower(name)
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(lower, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, len(name)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}

func (u UseCase) resolveAction(name string) (forage.ActionType, error) {
	types := forage.ActionTypes()
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	got, err := resolveName("action", name, names)
	return forage.ActionType(got), err
}

func (u UseCase) resolveResource(name string) (forage.ResourceID, error) {
	ids := u.Engine.Catalog().ResourceIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	got, err := resolveName("resource", name, names)
	return forage.ResourceID(got), err
}

func (u UseCase) resolveTech(name string) (forage.TechID, error) {
	ids := u.Engine.Catalog().TechIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	got, err := resolveName("technology", name, names)
	return forage.TechID(got), err
}
