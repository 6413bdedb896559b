package handler

type contextKey string

const WeekStartCtxKey contextKey = "weekStart"
