package rod

// Discard exposes discard to external tests.
var Discard = discard
