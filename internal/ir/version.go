package ir

// Version is the vscan release version.
const Version = "0.1.0"
