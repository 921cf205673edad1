package models

import "testing"

func TestPostCategoryValid(t *testing.T) {
	tests := []struct {
		category PostCategory
		want     bool
	}{
		{CategoryAcademic, true},
		{CategoryEvents, true},
		{CategoryGeneral, true},
		{CategorySports, true},
		{CategoryClubs, true},
		{PostCategory("all"), false},
		{PostCategory("Academic"), false},
		{PostCategory(""), false},
	}
	for _, tt := range tests {
		if got := tt.category.Valid(); got != tt.want {
			t.Errorf("PostCategory(%q).Valid() = %v, want %v", tt.category, got, tt.want)
		}
	}
}

func TestPostPriorityValid(t *testing.T) {
	tests := []struct {
		priority PostPriority
		want     bool
	}{
		{PriorityNormal, true},
		{PriorityUrgent, true},
		{PostPriority("all"), false},
		{PostPriority("URGENT"), false},
		{PostPriority(""), false},
	}
	for _, tt := range tests {
		if got := tt.priority.Valid(); got != tt.want {
			t.Errorf("PostPriority(%q).Valid() = %v, want %v", tt.priority, got, tt.want)
		}
	}
}
