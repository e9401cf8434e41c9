package domain

import (
	"errors"
	"fmt"
)

// ErrNoUsableModality indicates fusion received no contribution it could
// work with. Callers decide the user-facing fallback.
var ErrNoUsableModality = errors.New("no usable modality")

// ErrEmptyCatalog indicates there were no tracks to recommend from.
var ErrEmptyCatalog = errors.New("empty catalog")

// NoUsableModalityError reports which modalities were supplied when fusion
// found nothing usable.
type NoUsableModalityError struct {
	Supplied []string
}

func (e NoUsableModalityError) Error() string {
	if len(e.Supplied) == 0 {
		return ErrNoUsableModality.Error()
	}
	return fmt.Sprintf("no usable modality among %v", e.Supplied)
}

func (e NoUsableModalityError) Is(target error) bool {
	return target == ErrNoUsableModality
}
