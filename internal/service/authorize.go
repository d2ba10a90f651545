package service

import "github.com/dukerupert/platewise/internal/model"

// Owned is implemented by every record that belongs to exactly one user.
type Owned interface {
	OwnerID() int64
}

type publicReadable interface {
	Public() bool
}

// authorize decides whether userID may act on rec. A nil rec is ErrNotFound.
// When allowPublic is set, records reporting Public() are readable by anyone.
func authorize[T Owned](userID int64, rec *T, allowPublic bool) error {
	if rec == nil {
		return ErrNotFound
	}
	if (*rec).OwnerID() == userID {
		return nil
	}
	if allowPublic {
		if p, ok := any(*rec).(publicReadable); ok && p.Public() {
			return nil
		}
	}
	return ErrForbidden
}

// readable drops the recipes userID may not read. It filters in place.
func readable(userID int64, recipes []model.Recipe) []model.Recipe {
	kept := recipes[:0]
	for i := range recipes {
		if authorize(userID, &recipes[i], true) == nil {
			kept = append(kept, recipes[i])
		}
	}
	return kept
}
