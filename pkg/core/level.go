package core

// ErrorLevel indicates the importance of a structured error.
type ErrorLevel string

// LevelError is the level of every classified backend error.
const LevelError ErrorLevel = "error"
