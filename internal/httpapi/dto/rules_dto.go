package dto

import "shelfhub/internal/httpapi/models"

type UpdateRulesRequest struct {
	MaxDays   int     `json:"max_days" binding:"required,min=1"`
	MaxBooks  int     `json:"max_books" binding:"required,min=1"`
	RulesText *string `json:"rules_text,omitempty"`
}

type RulesResponse struct {
	MaxDays   int     `json:"max_days"`
	MaxBooks  int     `json:"max_books"`
	RulesText *string `json:"rules_text,omitempty"`
}

func RulesFromModel(rules models.BorrowingRules) RulesResponse {
	return RulesResponse{
		MaxDays:   rules.MaxDays,
		MaxBooks:  rules.MaxBooks,
		RulesText: rules.RulesText,
	}
}
