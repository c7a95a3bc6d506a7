package model

import "time"

// TaskAirdropRef is the lightweight airdrop reference embedded in a task,
// enough to render "which project is this for" without a second fetch.
type TaskAirdropRef struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// Task is a single actionable item, optionally linked to an airdrop.
//
// Completed is toggled in place via PATCH /api/tasks/:id/toggle. The
// authoritative value always arrives from the server after the toggle
// round-trip; local flips are provisional until then (see listview.TaskBoard
// for the optimistic flow and its rollback).
type Task struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	Project       string          `json:"project"`
	Completed     bool            `json:"completed"`
	IsDaily       bool            `json:"isDaily"`
	Priority      AirdropPriority `json:"priority"`
	Category      string          `json:"category"`
	EstimatedTime string          `json:"estimatedTime,omitempty"`
	Difficulty    string          `json:"difficulty,omitempty"`
	CreatedAt     time.Time       `json:"createdAt,omitzero"`
	CompletedAt   *time.Time      `json:"completedAt,omitempty"`
	Airdrop       *TaskAirdropRef `json:"airdrop,omitempty"`
}

// TaskStats is the aggregate returned by GET /api/tasks/stats.
// Computed server-side; the client never derives these from its local
// collection (the toggle flow deliberately does not recompute them, it
// refetches).
type TaskStats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	DailyTotal     int `json:"dailyTotal"`
	DailyCompleted int `json:"dailyCompleted"`
}
