package common

// UnknownStr is the String() fallback for enum values outside their declared range.
const UnknownStr = "unknown"
