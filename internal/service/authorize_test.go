package service

import (
	"errors"
	"testing"

	"github.com/dukerupert/platewise/internal/model"
)

func TestAuthorize(t *testing.T) {
	private := &model.Recipe{CreatedBy: 1}
	public := &model.Recipe{CreatedBy: 1, IsPublic: true}
	plan := &model.MealPlan{UserID: 1}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"owner", authorize(1, private, false), nil},
		{"stranger", authorize(2, private, false), ErrForbidden},
		{"stranger public read", authorize(2, public, true), nil},
		{"stranger public write", authorize(2, public, false), ErrForbidden},
		{"stranger private read", authorize(2, private, true), ErrForbidden},
		{"missing", authorize[model.Recipe](1, nil, true), ErrNotFound},
		{"plan owner", authorize(1, plan, false), nil},
		{"plan ignores public flag", authorize(2, plan, true), ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.want) {
				t.Errorf("err = %v, want %v", tt.err, tt.want)
			}
		})
	}
}
