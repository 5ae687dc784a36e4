package forage

import "errors"

var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return e.Kind + " " + e.ID + ": " + ErrNotFound.Error()
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

func unknownResource(id ResourceID) error {
	return &NotFoundError{Kind: "resource", ID: string(id)}
}
